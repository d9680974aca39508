// Package color provides the float32 color model used by the compositor and
// its conversions to and from 8-bit storage.
package color

// ColorF32 represents a color with float32 components in [0,1].
// Whether RGB is premultiplied by A is indicated by context; the compositor
// works on premultiplied values, gradients and blend formulas on straight ones.
type ColorF32 struct {
	R, G, B, A float32
}

// ColorU8 represents a color with uint8 components in [0,255].
type ColorU8 struct {
	R, G, B, A uint8
}

// Transparent is the zero color.
var Transparent = ColorF32{}

// U8ToF32 converts ColorU8 to ColorF32.
// Each uint8 component [0,255] is mapped to float32 [0,1].
func U8ToF32(c ColorU8) ColorF32 {
	return ColorF32{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

// F32ToU8 converts ColorF32 to ColorU8 using Quantize on every channel.
func F32ToU8(c ColorF32) ColorU8 {
	return ColorU8{
		R: Quantize(c.R),
		G: Quantize(c.G),
		B: Quantize(c.B),
		A: Quantize(c.A),
	}
}

// Quantize clamps v to [0,1] and converts it to uint8, rounding half up.
// This is the single rounding policy for all 8-bit output.
func Quantize(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// PremultipliedToU8 converts a premultiplied color to 8-bit premultiplied
// storage. Color channels never exceed alpha after rounding.
func PremultipliedToU8(c ColorF32) ColorU8 {
	out := F32ToU8(c)
	out.R = min(out.R, out.A)
	out.G = min(out.G, out.A)
	out.B = min(out.B, out.A)
	return out
}

// Premultiply returns a premultiplied color.
func (c ColorF32) Premultiply() ColorF32 {
	return ColorF32{
		R: c.R * c.A,
		G: c.G * c.A,
		B: c.B * c.A,
		A: c.A,
	}
}

// Unpremultiply returns an unpremultiplied color.
func (c ColorF32) Unpremultiply() ColorF32 {
	if c.A <= 0 {
		return ColorF32{}
	}
	inv := 1 / c.A
	return ColorF32{
		R: clamp01(c.R * inv),
		G: clamp01(c.G * inv),
		B: clamp01(c.B * inv),
		A: c.A,
	}
}

// Scale multiplies every channel (including alpha) by s. On a premultiplied
// color this is the same as scaling its opacity.
func (c ColorF32) Scale(s float32) ColorF32 {
	return ColorF32{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// Lerp performs componentwise linear interpolation between two colors.
func (c ColorF32) Lerp(other ColorF32, t float32) ColorF32 {
	return ColorF32{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// IsTransparent reports whether alpha is zero.
func (c ColorF32) IsTransparent() bool {
	return c.A <= 0
}

// IsOpaque reports whether alpha is one.
func (c ColorF32) IsOpaque() bool {
	return c.A >= 1
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
