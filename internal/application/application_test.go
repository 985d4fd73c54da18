package application

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/Th0mmi3/auto-comment/internal/config"
	"github.com/Th0mmi3/auto-comment/internal/credential"
	"github.com/Th0mmi3/auto-comment/internal/tracker"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	cfg := config.Default()
	cfg.WalletFile = filepath.Join(dir, "wallet.json")
	cfg.LogFile = filepath.Join(dir, "bot.log")
	cfg.ProfileRoot = dir
	return cfg
}

func TestRun_MissingWalletIsFatal(t *testing.T) {
	cfg := testConfig(t)

	err := Run(context.Background(), cfg)

	require.ErrorIs(t, err, credential.ErrNotFound)
	logged, readErr := os.ReadFile(cfg.LogFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(logged), "wallet file unusable")
}

func TestRun_InvalidWalletIsFatal(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.WalletFile, []byte(`{"public_key": "P"}`), 0o600))

	err := Run(context.Background(), cfg)

	require.ErrorIs(t, err, credential.ErrMissingKeys)
}

func TestRun_BadLogLevelIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "chatty"

	require.Error(t, Run(context.Background(), cfg))
}

func TestOpenTracker(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	seen, closeFn, err := openTracker(ctx, cfg)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &tracker.SeenSet{}, seen)

	cfg.SeenDB = filepath.Join(t.TempDir(), "seen.db")
	seen, closeFn, err = openTracker(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &tracker.SQLiteStore{}, seen)

	isNew, err := seen.IsNewAndMark(ctx, "7")
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestPostLimiter(t *testing.T) {
	assert.Nil(t, PostLimiter(0))

	l := PostLimiter(6)
	require.NotNil(t, l)
	assert.Equal(t, rate.Limit(0.1), l.Limit())
	assert.Equal(t, 1, l.Burst())
}

func TestBuilders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timeouts.Listing = 3 * time.Second

	s := NewScanner(cfg, nil, nil)
	assert.Equal(t, cfg.BoardURL, s.BoardURL)
	assert.Equal(t, 3*time.Second, s.Wait)

	r := NewReplier(cfg, nil)
	assert.Equal(t, cfg.Timeouts, r.Timeouts)
}
