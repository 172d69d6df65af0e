package png

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	// decoders accepted on input besides png
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type PngImage struct {
	Img    image.Image
	Bounds image.Rectangle
	Format string
}

type PipelineStage interface {
	Process(img *PngImage) error
}

// NewPngFromReader decodes any registered image format, not only png.
func NewPngFromReader(r io.Reader) (*PngImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &PngImage{
		Img:    img,
		Bounds: img.Bounds(),
		Format: format,
	}, nil
}

func Load(filename string) (*PngImage, error) {
	img, err := imgio.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	return &PngImage{
		Img:    img,
		Bounds: img.Bounds(),
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
	}, nil
}

// Save encodes by file extension: .jpg/.jpeg and .bmp are honoured, anything
// else is written as png.
func (p *PngImage) Save(filename string) error {
	if err := imgio.Save(filename, p.Img, EncoderFor(filename)); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

func EncoderFor(filename string) imgio.Encoder {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95)
	case ".bmp":
		return imgio.BMPEncoder()
	default:
		return imgio.PNGEncoder()
	}
}

func (p *PngImage) Write(w io.Writer) error {
	return png.Encode(w, p.Img)
}

func (p *PngImage) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
