package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{200, 40, 10, 255})
		}
	}

	out := Downsample(src, 4)
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())

	// Deep inside the opaque half the color survives unchanged.
	c := out.NRGBAAt(0, 2)
	assert.Equal(t, uint8(255), c.A)
	assert.InDelta(t, 200, int(c.R), 8)
	// The transparent half stays transparent.
	assert.Equal(t, uint8(0), out.NRGBAAt(3, 2).A)

	assert.Same(t, src, Downsample(src, 8))
}
