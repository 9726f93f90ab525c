package render

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertColorNear(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	r, g, b, a := got.RGBA()
	assert.InDelta(t, float64(want.R), float64(r>>8), 2, "red")
	assert.InDelta(t, float64(want.G), float64(g>>8), 2, "green")
	assert.InDelta(t, float64(want.B), float64(b>>8), 2, "blue")
	assert.InDelta(t, float64(want.A), float64(a>>8), 2, "alpha")
}

func TestRasterizeArcMidpointUsesStrokeColour(t *testing.T) {
	frame := DefaultFrame()
	img, err := Rasterize(frame, Layout(5, math.Pi/3, frame))
	require.NoError(t, err)

	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
	assertColorNear(t, color.RGBA{13, 110, 253, 255}, img.At(500, 240))
	assertColorNear(t, color.RGBA{255, 255, 255, 255}, img.At(0, 0))
	// opposite side of the circle only has the thin reference ring
	assertColorNear(t, color.RGBA{255, 255, 255, 255}, img.At(300, 260))
}

func TestRasterizeExactRevolutionMarksCentre(t *testing.T) {
	frame := DefaultFrame()
	img, err := Rasterize(frame, Layout(5, 4*math.Pi, frame))
	require.NoError(t, err)

	assertColorNear(t, color.RGBA{33, 37, 41, 255}, img.At(400, 240))
	// ring interior stays white
	assertColorNear(t, color.RGBA{255, 255, 255, 255}, img.At(450, 240))
}

func TestRasterizeRejectsBadFrame(t *testing.T) {
	_, err := Rasterize(CanvasFrame{}, nil)
	assert.Error(t, err)
}

func TestWritePNGDecodes(t *testing.T) {
	frame := CanvasFrame{Width: 200, Height: 100, Margin: 10, PixelsPerUnit: 10}
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, frame, Layout(3, 2.5, frame)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#0d6efd", 1)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 13, G: 110, B: 253, A: 255}, c)

	c, ok = ParseColor("#fff", 0.5)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, c)

	for _, s := range []string{"", "none", "#12345", "#zzzzzz"} {
		_, ok := ParseColor(s, 1)
		assert.False(t, ok, s)
	}
}
