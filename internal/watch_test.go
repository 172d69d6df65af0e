package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, batchOptions(in, out), 50*time.Millisecond, nil)
	}()

	// give the watcher a moment to register before writing
	time.Sleep(100 * time.Millisecond)
	tmp := filepath.Join(t.TempDir(), "arrived.png")
	writePng(t, tmp, 24, 12)
	require.NoError(t, os.Rename(tmp, filepath.Join(in, "arrived.png")))
	require.NoError(t, os.WriteFile(filepath.Join(in, "ignored.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "arrived.png"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	assert.NoFileExists(t, filepath.Join(out, "ignored.png"))
}
