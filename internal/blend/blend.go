// Package blend provides premultiplied float32 compositing: the 16 blend
// modes of W3C Compositing and Blending Level 1, offscreen layers and a
// layer pool.
package blend

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/color"
)

// BlendMode represents a blending mode.
type BlendMode uint8

const (
	// BlendNormal is source-over compositing.
	BlendNormal BlendMode = iota

	// Separable blend modes
	BlendMultiply   // Cs * Cb
	BlendScreen     // Cs + Cb - Cs*Cb
	BlendOverlay    // HardLight with swapped layers
	BlendDarken     // min(Cs, Cb)
	BlendLighten    // max(Cs, Cb)
	BlendColorDodge // Cb / (1 - Cs)
	BlendColorBurn  // 1 - (1 - Cb) / Cs
	BlendHardLight  // Multiply or Screen depending on source
	BlendSoftLight  // Soft version of HardLight
	BlendDifference // |Cs - Cb|
	BlendExclusion  // Cs + Cb - 2*Cs*Cb

	// Non-separable blend modes
	BlendHue        // Hue of source, saturation and luminosity of backdrop
	BlendSaturation // Saturation of source, hue and luminosity of backdrop
	BlendColor      // Hue and saturation of source, luminosity of backdrop
	BlendLuminosity // Luminosity of source, hue and saturation of backdrop
)

var modeNames = [...]string{
	BlendNormal:     "normal",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendDarken:     "darken",
	BlendLighten:    "lighten",
	BlendColorDodge: "color-dodge",
	BlendColorBurn:  "color-burn",
	BlendHardLight:  "hard-light",
	BlendSoftLight:  "soft-light",
	BlendDifference: "difference",
	BlendExclusion:  "exclusion",
	BlendHue:        "hue",
	BlendSaturation: "saturation",
	BlendColor:      "color",
	BlendLuminosity: "luminosity",
}

// String returns the CSS name of the mode.
func (m BlendMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseBlendMode returns the mode with the given CSS name.
func ParseBlendMode(s string) (BlendMode, bool) {
	for i, name := range modeNames {
		if name == s {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

// IsSeparable reports whether the mode works channel by channel.
func (m BlendMode) IsSeparable() bool {
	return m < BlendHue
}

// Blend composites premultiplied src over premultiplied dst with mode:
//
//	co = cs*(1-ab) + cb*(1-as) + as*ab*B(Cb, Cs)
//	ao = as + ab - as*ab
//
// where B is evaluated on straight colors.
func Blend(src, dst color.ColorF32, mode BlendMode) color.ColorF32 {
	if src.IsTransparent() {
		return dst
	}
	if mode == BlendNormal || dst.IsTransparent() {
		return sourceOver(src, dst)
	}

	s := src.Unpremultiply()
	b := dst.Unpremultiply()

	var r, g, bl float32
	if mode.IsSeparable() {
		fn := separableFuncs[mode]
		r, g, bl = fn(b.R, s.R), fn(b.G, s.G), fn(b.B, s.B)
	} else {
		r, g, bl = nonSeparable(mode, s.R, s.G, s.B, b.R, b.G, b.B)
	}

	sa, da := src.A, dst.A
	both := sa * da
	return color.ColorF32{
		R: src.R*(1-da) + dst.R*(1-sa) + both*r,
		G: src.G*(1-da) + dst.G*(1-sa) + both*g,
		B: src.B*(1-da) + dst.B*(1-sa) + both*bl,
		A: sa + da - both,
	}
}

// sourceOver blends source over destination, both premultiplied.
func sourceOver(src, dst color.ColorF32) color.ColorF32 {
	inv := 1 - src.A
	return color.ColorF32{
		R: src.R + dst.R*inv,
		G: src.G + dst.G*inv,
		B: src.B + dst.B*inv,
		A: src.A + dst.A*inv,
	}
}

// separableFuncs maps each separable mode to B(cb, cs).
var separableFuncs = [...]func(cb, cs float32) float32{
	BlendMultiply:   func(cb, cs float32) float32 { return cb * cs },
	BlendScreen:     screen,
	BlendOverlay:    func(cb, cs float32) float32 { return hardLight(cs, cb) },
	BlendDarken:     math32.Min,
	BlendLighten:    math32.Max,
	BlendColorDodge: colorDodge,
	BlendColorBurn:  colorBurn,
	BlendHardLight:  hardLight,
	BlendSoftLight:  softLight,
	BlendDifference: func(cb, cs float32) float32 { return math32.Abs(cb - cs) },
	BlendExclusion:  func(cb, cs float32) float32 { return cb + cs - 2*cb*cs },
	BlendNormal:     func(_, cs float32) float32 { return cs },
}

func screen(cb, cs float32) float32 {
	return cb + cs - cb*cs
}

func hardLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return screen(cb, 2*cs-1)
}

func colorDodge(cb, cs float32) float32 {
	switch {
	case cb <= 0:
		return 0
	case cs >= 1:
		return 1
	}
	return math32.Min(1, cb/(1-cs))
}

func colorBurn(cb, cs float32) float32 {
	switch {
	case cb >= 1:
		return 1
	case cs <= 0:
		return 0
	}
	return 1 - math32.Min(1, (1-cb)/cs)
}

func softLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float32
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math32.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

