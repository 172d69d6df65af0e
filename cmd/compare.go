package cmd

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rm-hull/image-resampler/internal"
	"github.com/rm-hull/image-resampler/internal/config"
	"github.com/rm-hull/image-resampler/internal/png"
	"github.com/rm-hull/image-resampler/internal/png/stage"
	"github.com/rm-hull/image-resampler/internal/resample"
)

// CompareFilters is the frame order of the comparison animation.
var CompareFilters = []resample.Filter{
	resample.NearestFilter(),
	resample.LinearFilter(),
	resample.TriangularFilter(),
	resample.CubicFilter(),
	resample.Lanczos3Filter(),
	resample.GaussianFilter(1),
}

// Compare resamples inFile with every filter and writes an APNG that cycles
// through the results.
func Compare(cfg *config.Config, inFile, outFile string, width, height int, frameDelay float64) error {
	src, err := png.Load(inFile)
	if err != nil {
		return err
	}

	resizer := internal.NewResizer(resample.NewPlanCache(len(CompareFilters)),
		cfg.Resample.ScratchLimit, cfg.Resample.Workers, cfg.Resample.MaxPixels)

	frames := make([]image.Image, 0, len(CompareFilters))
	for _, f := range CompareFilters {
		frame := *src
		resize := &stage.ResampleStage{Resampler: resizer, Width: width, Height: height, Filter: f}
		if err := frame.Pipeline(resize); err != nil {
			return fmt.Errorf("failed to resample with %s: %w", f, err)
		}
		log.Printf("Frame %d: %s", len(frames), f)
		frames = append(frames, frame.Img)
	}

	apngBytes, err := png.Animate(frames, frameDelay)
	if err != nil {
		return err
	}

	return os.WriteFile(outFile, apngBytes, 0644)
}
