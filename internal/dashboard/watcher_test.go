package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var triggers atomic.Int32
	w, err := NewWatcher(path, func(context.Context) bool {
		triggers.Add(1)
		return true
	}, nil)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error)
	go func() { done <- w.Run(ctx) }()

	// Rapid saves coalesce into one trigger.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"turns":[1]}`), 0o644))
	}
	assert.Eventually(t, func() bool { return triggers.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), triggers.Load())

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), triggers.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherRetriesSuppressedTrigger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(path, func(context.Context) bool {
		// The first attempt finds a cycle in flight.
		return calls.Add(1) > 1
	}, nil)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte(`{"turns":[1]}`), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load(), "change should be retried until it runs, then cleared")

	cancel()
	require.NoError(t, <-done)
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "metrics.json"), func(context.Context) bool { return true }, nil)
	assert.Error(t, err)
}
