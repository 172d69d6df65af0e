package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/rm-hull/image-resampler/internal"
	"github.com/rm-hull/image-resampler/internal/config"
	"github.com/rm-hull/image-resampler/internal/png"
	"github.com/rm-hull/image-resampler/internal/png/stage"
	"github.com/rm-hull/image-resampler/internal/resample"
)

// Resize resamples a single file. An optional blur runs first, at the source size.
func Resize(cfg *config.Config, inFile, outFile string, width, height int, filter resample.Filter, blurSigma float64) error {
	img, err := png.Load(inFile)
	if err != nil {
		return err
	}

	resizer := internal.NewResizer(nil, cfg.Resample.ScratchLimit, cfg.Resample.Workers, cfg.Resample.MaxPixels)
	stages := make([]png.PipelineStage, 0, 2)
	if blurSigma > 0 {
		stages = append(stages, &stage.GaussianBlurStage{Resampler: resizer, Sigma: blurSigma})
	}
	stages = append(stages, &stage.ResampleStage{Resampler: resizer, Width: width, Height: height, Filter: filter})

	start := time.Now()
	from := img.Bounds
	if err := img.Pipeline(stages...); err != nil {
		return fmt.Errorf("failed to resample %s: %w", inFile, err)
	}
	log.Printf("Resampled %s %dx%d -> %dx%d with %s in %s",
		inFile, from.Dx(), from.Dy(), img.Bounds.Dx(), img.Bounds.Dy(), filter, time.Since(start))

	return img.Save(outFile)
}
