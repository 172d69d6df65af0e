package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	t.Run("runs immediately then schedules", func(t *testing.T) {
		in, out := t.TempDir(), t.TempDir()
		writePng(t, filepath.Join(in, "first.png"), 16, 16)

		sched, err := NewScheduler(batchOptions(in, out), "*/5 * * * *", nil)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "first.png"))
		assert.Len(t, sched.Jobs(), 1)
		assert.NoError(t, sched.Shutdown())
	})

	t.Run("bad schedule", func(t *testing.T) {
		_, err := NewScheduler(batchOptions(t.TempDir(), t.TempDir()), "every tuesday", nil)
		assert.ErrorContains(t, err, "failed to create job")
	})

	t.Run("initial run fails", func(t *testing.T) {
		opts := batchOptions(filepath.Join(t.TempDir(), "missing"), t.TempDir())
		_, err := NewScheduler(opts, "*/5 * * * *", nil)
		assert.ErrorContains(t, err, "initial run of job failed")
	})
}
