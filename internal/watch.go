package internal

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rm-hull/image-resampler/internal/resample"
)

// Watch resamples images as they are written into opts.InputDir until ctx is
// done. Each file is processed once its writes have been quiet for settle.
func Watch(ctx context.Context, opts BatchOptions, settle time.Duration, cache *resample.PlanCache) error {
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(opts.InputDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.InputDir, err)
	}
	log.Printf("Watching %s for new images", opts.InputDir)

	resizer := NewResizer(cache, opts.ScratchLimit, opts.KernelWorkers, opts.MaxPixels)
	pipeline := Pipeline(resizer, opts)
	pending := map[string]time.Time{}
	ticker := time.NewTicker(max(settle/2, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create|fsnotify.Write) && IsImageFile(event.Name) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case now := <-ticker.C:
			for file, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, file)
				job := NewJob(file, opts.OutputDir)
				if err := ProcessJob(job, pipeline); err != nil {
					log.Printf("Job %s (%s) failed: %v", job.Id, file, err)
				} else {
					log.Printf("Job %s: %s -> %s", job.Id, file, job.Target)
				}
			}
		}
	}
}
