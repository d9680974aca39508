package blend

// Non-separable blend modes (W3C Compositing Level 1, section 5.8). They
// mix whole RGB triplets of unpremultiplied colors.

// rgb is an unpremultiplied color triplet.
type rgb [3]float32

func (c rgb) lum() float32 { return 0.30*c[0] + 0.59*c[1] + 0.11*c[2] }

func (c rgb) sat() float32 {
	return max(c[0], c[1], c[2]) - min(c[0], c[1], c[2])
}

// clip pulls out-of-gamut components back into [0, 1] along the line
// towards the gray of equal luminance.
func (c rgb) clip() rgb {
	l := c.lum()
	lo, hi := min(c[0], c[1], c[2]), max(c[0], c[1], c[2])
	if lo < 0 && l > lo {
		for i := range c {
			c[i] = l + (c[i]-l)*l/(l-lo)
		}
	}
	if hi > 1 && hi > l {
		for i := range c {
			c[i] = l + (c[i]-l)*(1-l)/(hi-l)
		}
	}
	return c
}

func (c rgb) withLum(l float32) rgb {
	d := l - c.lum()
	return rgb{c[0] + d, c[1] + d, c[2] + d}.clip()
}

// withSat rescales c to saturation s keeping the order of its components.
// A gray input has no hue to keep and becomes black.
func (c rgb) withSat(s float32) rgb {
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}

	var out rgb
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out
}

// Lum returns the luminance used by the non-separable modes.
func Lum(r, g, b float32) float32 { return rgb{r, g, b}.lum() }

// Sat returns max(r, g, b) - min(r, g, b).
func Sat(r, g, b float32) float32 { return rgb{r, g, b}.sat() }

// ClipColor clips a color into gamut while preserving its luminance.
func ClipColor(r, g, b float32) (float32, float32, float32) {
	c := rgb{r, g, b}.clip()
	return c[0], c[1], c[2]
}

// SetLum shifts a color to luminance l.
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	c := rgb{r, g, b}.withLum(l)
	return c[0], c[1], c[2]
}

// SetSat rescales a color to saturation s.
func SetSat(r, g, b, s float32) (float32, float32, float32) {
	c := rgb{r, g, b}.withSat(s)
	return c[0], c[1], c[2]
}

func nonSeparable(mode BlendMode, sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	src, dst := rgb{sr, sg, sb}, rgb{dr, dg, db}
	var out rgb
	switch mode {
	case BlendHue:
		out = src.withSat(dst.sat()).withLum(dst.lum())
	case BlendSaturation:
		out = dst.withSat(src.sat()).withLum(dst.lum())
	case BlendColor:
		out = src.withLum(dst.lum())
	default:
		out = dst.withLum(src.lum())
	}
	return out[0], out[1], out[2]
}
