package stage

import (
	"github.com/rm-hull/image-resampler/internal/png"
	"github.com/rm-hull/image-resampler/internal/resample"
)

type GaussianBlurStage struct {
	Resampler Resampler
	Sigma     float64
}

// Process applies a Gaussian blur by resampling the image to its own size
// with a Gaussian filter. Higher Sigma values give a stronger blur.
func (s *GaussianBlurStage) Process(p *png.PngImage) error {
	f, err := resample.MakeFilter(resample.Gaussian, s.Sigma)
	if err != nil {
		return err
	}
	return apply(s.Resampler, p, resample.NewParams(p.Bounds.Dy(), p.Bounds.Dx(), f))
}
