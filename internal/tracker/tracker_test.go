package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenSet_SecondMarkIsNotNew(t *testing.T) {
	ctx := context.Background()
	s := NewSeenSet()

	isNew, err := s.IsNewAndMark(ctx, "7")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = s.IsNewAndMark(ctx, "7")
	require.NoError(t, err)
	assert.False(t, isNew)

	assert.Equal(t, 1, s.Len())
}

func TestSeenSet_ConcurrentMarkClaimsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewSeenSet()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.IsNewAndMark(ctx, "same"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestSQLiteStore_MarksOnce(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	for i, want := range []bool{true, false, false} {
		got, err := s.IsNewAndMark(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, want, got, "call %d", i)
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seen.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.IsNewAndMark(ctx, fmt.Sprintf("coin-%d", i))
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	isNew, err := s.IsNewAndMark(ctx, "coin-1")
	require.NoError(t, err)
	assert.False(t, isNew)

	isNew, err = s.IsNewAndMark(ctx, "coin-9")
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestSQLiteStore_ClosedReturnsError(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.IsNewAndMark(ctx, "x")
	require.Error(t, err)
}
