package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/rm-hull/image-resampler/internal"
	"github.com/rm-hull/image-resampler/internal/config"
	"github.com/rm-hull/image-resampler/internal/resample"
)

func batchOptions(cfg *config.Config) (internal.BatchOptions, error) {
	filter, err := cfg.Resample.ParseFilter()
	if err != nil {
		return internal.BatchOptions{}, err
	}
	return internal.BatchOptions{
		InputDir:      cfg.Batch.InputDir,
		OutputDir:     cfg.Batch.OutputDir,
		PoolSize:      cfg.Batch.PoolSize,
		Width:         cfg.Batch.Width,
		Height:        cfg.Batch.Height,
		Filter:        filter,
		BlurSigma:     cfg.Batch.BlurSigma,
		KernelWorkers: cfg.Resample.Workers,
		ScratchLimit:  cfg.Resample.ScratchLimit,
		MaxPixels:     cfg.Resample.MaxPixels,
	}, nil
}

// Batch resamples every image in the input directory once, or keeps doing so
// on the configured schedule until interrupted.
func Batch(cfg *config.Config) error {
	opts, err := batchOptions(cfg)
	if err != nil {
		return err
	}
	cache := resample.NewPlanCache(cfg.Resample.PlanCacheSize)

	if cfg.Batch.Schedule == "" {
		return internal.RunBatch(opts, cache)
	}

	sched, err := internal.NewScheduler(opts, cfg.Batch.Schedule, cache)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down scheduler")
	return sched.Shutdown()
}

// Watch resamples images as they arrive in the input directory until
// interrupted.
func Watch(cfg *config.Config) error {
	opts, err := batchOptions(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return internal.Watch(ctx, opts, cfg.Batch.Settle, resample.NewPlanCache(cfg.Resample.PlanCacheSize))
}
