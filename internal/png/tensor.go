package png

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// ToTensor exposes the pixels of an image as a (height, width, channels)
// view. Greyscale images give one channel and share their pixel buffer;
// everything else is converted to premultiplied RGBA with four channels.
func ToTensor(img image.Image) tensor.View[uint8] {
	if g, ok := img.(*image.Gray); ok {
		b := g.Bounds()
		shape := tensor.Shape{Height: b.Dy(), Width: b.Dx(), Channels: 1}
		if shape.Empty() {
			return tensor.NewView[uint8](nil, shape)
		}
		offset := g.PixOffset(b.Min.X, b.Min.Y)
		// g.Stride >= width, so this cannot fail
		v, _ := tensor.NewStridedView(g.Pix[offset:], shape, g.Stride)
		return v
	}

	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	shape := tensor.Shape{Height: b.Dy(), Width: b.Dx(), Channels: 4}
	if shape.Empty() {
		return tensor.NewView[uint8](nil, shape)
	}
	v, _ := tensor.NewStridedView(rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y):], shape, rgba.Stride)
	return v
}

// FromTensor copies a one or four channel view into a new image anchored at
// the origin.
func FromTensor(v tensor.View[uint8]) (image.Image, error) {
	rect := image.Rect(0, 0, v.Shape.Width, v.Shape.Height)
	switch v.Shape.Channels {
	case 1:
		img := image.NewGray(rect)
		for y := range v.Shape.Height {
			copy(img.Pix[y*img.Stride:], v.Row(y))
		}
		return img, nil
	case 4:
		img := image.NewRGBA(rect)
		for y := range v.Shape.Height {
			copy(img.Pix[y*img.Stride:], v.Row(y))
		}
		return img, nil
	default:
		return nil, fmt.Errorf("cannot build an image from %d channels", v.Shape.Channels)
	}
}
