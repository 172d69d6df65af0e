package internal

import (
	"fmt"
	"log"

	"github.com/go-co-op/gocron/v2"
	"github.com/rm-hull/image-resampler/internal/resample"
)

// NewScheduler runs one batch straight away, then again on every tick of the
// cron expression. Overlapping runs are rescheduled rather than stacked.
func NewScheduler(opts BatchOptions, schedule string, cache *resample.PlanCache) (gocron.Scheduler, error) {

	if err := scheduledBatch(opts, cache); err != nil {
		return nil, fmt.Errorf("initial run of job failed: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(scheduledBatch, opts, cache),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)

	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	log.Printf("Scheduled batch %s -> %s (schedule=%s)", opts.InputDir, opts.OutputDir, schedule)
	scheduler.Start()
	return scheduler, nil
}

func scheduledBatch(opts BatchOptions, cache *resample.PlanCache) error {
	err := RunBatch(opts, cache)
	if err != nil {
		log.Printf("Batch failed: %v", err)
	}
	return err
}
