package stage

import (
	"fmt"

	"github.com/rm-hull/image-resampler/internal/png"
	"github.com/rm-hull/image-resampler/internal/resample"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// Resampler runs the resampling kernel over an 8-bit image view.
type Resampler interface {
	Resample(in tensor.View[uint8], params resample.Params) (tensor.View[uint8], error)
}

type ResampleStage struct {
	Resampler Resampler
	Width     int
	Height    int
	Filter    resample.Filter
}

// Process resizes the image to Width x Height. A zero dimension keeps the
// aspect ratio of the source; both zero leaves the size unchanged.
func (s *ResampleStage) Process(p *png.PngImage) error {
	w, h := TargetSize(p.Bounds.Dx(), p.Bounds.Dy(), s.Width, s.Height)
	return apply(s.Resampler, p, resample.NewParams(h, w, s.Filter))
}

// TargetSize fills in a missing dimension from the source aspect ratio.
func TargetSize(srcW, srcH, w, h int) (int, int) {
	switch {
	case w <= 0 && h <= 0:
		return srcW, srcH
	case w <= 0:
		return max(1, (srcW*h+srcH/2)/srcH), h
	case h <= 0:
		return w, max(1, (srcH*w+srcW/2)/srcW)
	default:
		return w, h
	}
}

func apply(r Resampler, p *png.PngImage, params resample.Params) error {
	out, err := r.Resample(png.ToTensor(p.Img), params)
	if err != nil {
		return fmt.Errorf("failed to resample %dx%d image: %w", p.Bounds.Dx(), p.Bounds.Dy(), err)
	}
	img, err := png.FromTensor(out)
	if err != nil {
		return err
	}
	p.Img = img
	p.Bounds = img.Bounds()
	return nil
}
