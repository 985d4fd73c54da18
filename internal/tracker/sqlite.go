package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_coins (
	id         TEXT PRIMARY KEY,
	first_seen INTEGER NOT NULL
);`

// SQLiteStore — то же, что SeenSet, но переживает рестарт процесса.
// Включается через SEEN_DB; по умолчанию бот работает только с памятью.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open seen db %s: %w", path, err)
	}
	// одна сессия браузера — один писатель; так же :memory: не разваливается на несколько баз
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init seen db schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// IsNewAndMark inserts id if absent. The INSERT OR IGNORE makes the test-and-set a single
// statement, so two processes sharing the file cannot both claim the same id.
func (s *SQLiteStore) IsNewAndMark(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_coins (id, first_seen) VALUES (?, ?)`,
		id, s.now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("mark coin %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark coin %s: %w", id, err)
	}
	return n == 1, nil
}

func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_coins`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
