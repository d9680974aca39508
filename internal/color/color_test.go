package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizeRoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128}, // 127.5 rounds up
		{1.0 / 255, 1},
		{0.999, 255},
		{1, 255},
		{2, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quantize(tt.in), "Quantize(%v)", tt.in)
	}
}

func TestQuantizeNaN(t *testing.T) {
	var zero float32
	assert.Equal(t, uint8(0), Quantize(zero/zero))
}

func TestPremultipliedToU8ClampsToAlpha(t *testing.T) {
	got := PremultipliedToU8(ColorF32{R: 0.6, G: 0.2, B: 0, A: 0.5})
	assert.Equal(t, ColorU8{R: 128, G: 51, B: 0, A: 128}, got)
}

func TestPremultiplyRoundTrip(t *testing.T) {
	c := ColorF32{R: 0.8, G: 0.4, B: 0.2, A: 0.5}
	back := c.Premultiply().Unpremultiply()
	assert.InDelta(t, c.R, back.R, 1e-6)
	assert.InDelta(t, c.G, back.G, 1e-6)
	assert.InDelta(t, c.B, back.B, 1e-6)
	assert.Equal(t, c.A, back.A)
}

func TestUnpremultiplyTransparent(t *testing.T) {
	assert.Equal(t, Transparent, ColorF32{R: 0.1, A: 0}.Unpremultiply())
}

func TestLerp(t *testing.T) {
	a := ColorF32{R: 0, G: 0, B: 0, A: 0}
	b := ColorF32{R: 1, G: 0.5, B: 0.25, A: 1}
	assert.Equal(t, ColorF32{R: 0.5, G: 0.25, B: 0.125, A: 0.5}, a.Lerp(b, 0.5))
}

func TestAlphaPredicates(t *testing.T) {
	assert.True(t, Transparent.IsTransparent())
	assert.False(t, Transparent.IsOpaque())
	assert.True(t, ColorF32{R: 1, A: 1}.IsOpaque())
	half := ColorF32{R: 0.5, A: 0.5}
	assert.False(t, half.IsTransparent())
	assert.False(t, half.IsOpaque())
}
