package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salvo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: http://localhost\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	fire := func() error {
		if fired.Add(1) == 2 {
			return errors.New("second run failed")
		}
		return nil
	}

	var out syncBuffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, &out, logger, fire)
	}()

	require.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)

	// A burst of writes fires once.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("url: http://localhost:8080\n"), 0o644))
	}
	require.Eventually(t, func() bool { return fired.Load() == 2 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(2 * watchDebounce)
	assert.Equal(t, int32(2), fired.Load())

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("x"), 0o644))
	time.Sleep(2 * watchDebounce)
	assert.Equal(t, int32(2), fired.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}

	assert.Contains(t, out.String(), "Config changed")
	assert.Contains(t, out.String(), "Error: second run failed")
}

func TestWatchFile_MissingDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "salvo.yaml"), io.Discard, logger, func() error {
		return nil
	})
	assert.Error(t, err)
}
