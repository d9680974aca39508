// Package paint resolves fills and strokes to per-pixel premultiplied colors.
//
// Every shader maps a device-space point (pixel centers at +0.5) to a
// premultiplied color. Gradient interpolation happens on straight colors;
// the result is premultiplied and scaled by the paint opacity.
package paint

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/color"
)

// Shader computes the paint color at a device point.
type Shader interface {
	// At returns the premultiplied color at (x, y).
	At(x, y float32) color.ColorF32
}

// Spread defines how gradients extend beyond their defined bounds.
type Spread uint8

const (
	// SpreadPad extends edge colors beyond bounds.
	SpreadPad Spread = iota
	// SpreadReflect mirrors the gradient pattern.
	SpreadReflect
	// SpreadRepeat repeats the gradient pattern.
	SpreadRepeat
)

// String returns the SVG keyword of the spread method.
func (s Spread) String() string {
	switch s {
	case SpreadReflect:
		return "reflect"
	case SpreadRepeat:
		return "repeat"
	default:
		return "pad"
	}
}

// ColorStop represents a straight color at a position in a gradient.
type ColorStop struct {
	Offset float32 // Position in gradient, 0.0 to 1.0
	Color  color.ColorF32
}

// ValidStops reports whether stops is non-empty with non-decreasing offsets
// in [0, 1].
func ValidStops(stops []ColorStop) bool {
	if len(stops) == 0 {
		return false
	}
	prev := float32(0)
	for _, s := range stops {
		if math32.IsNaN(s.Offset) || s.Offset < prev || s.Offset > 1 {
			return false
		}
		prev = s.Offset
	}
	return true
}

// Solid is a constant premultiplied color.
type Solid color.ColorF32

// NewSolid returns a shader for a straight color with opacity applied.
func NewSolid(c color.ColorF32, opacity float32) Solid {
	return Solid(c.Premultiply().Scale(opacity))
}

// At implements Shader.
func (s Solid) At(_, _ float32) color.ColorF32 {
	return color.ColorF32(s)
}

// applySpread applies the spread method to normalize t to [0, 1].
func applySpread(t float32, s Spread) float32 {
	switch s {
	case SpreadRepeat:
		t -= math32.Floor(t)
	case SpreadReflect:
		t = math32.Mod(t, 2)
		if t < 0 {
			t += 2
		}
		if t > 1 {
			t = 2 - t
		}
	default:
		t = clamp01(t)
	}
	return t
}

// colorAtOffset returns the straight color at t in [0, 1]. Beyond the first
// and last stops the edge colors are used; for coincident stops the later one
// wins once t reaches the offset.
func colorAtOffset(stops []ColorStop, t float32) color.ColorF32 {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := len(stops) - 1
	if t >= stops[last].Offset {
		return stops[last].Color
	}
	// last stop with offset <= t; stops[i+1].Offset > t
	i := 0
	for i+1 < len(stops) && stops[i+1].Offset <= t {
		i++
	}
	a, b := stops[i], stops[i+1]
	f := (t - a.Offset) / (b.Offset - a.Offset)
	return a.Color.Lerp(b.Color, f)
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
