package png

import (
	"bytes"
	"fmt"
	"image"

	"github.com/kettek/apng"
)

// Animate encodes the frames as a looping APNG showing each frame for
// frameDelay seconds. Frames smaller than the first are drawn at the origin.
func Animate(frames []image.Image, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to animate")
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	for i, img := range frames {
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(frameDelay * 1000),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, fmt.Errorf("failed to encode animation: %w", err)
	}

	return buf.Bytes(), nil
}
