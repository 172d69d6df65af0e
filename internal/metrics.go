package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resampleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resampler_run_duration_seconds",
		Help:    "Time spent running the resampling kernel.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 9),
	}, []string{"filter"})

	resampleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resampler_runs_total",
		Help: "Resampling runs by filter and outcome.",
	}, []string{"filter", "result"})

	arenaBytesReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resampler_arena_bytes_reserved_total",
		Help: "Scratch bytes reserved by resizers, summed over every arena growth.",
	})

	arenaReallocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resampler_arena_reallocations_total",
		Help: "Times a scratch arena had to grow.",
	})
)
