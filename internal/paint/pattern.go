package paint

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/internal/color"
	"github.com/gogpu/rtree/internal/geom"
)

// PatternShader samples a pre-rendered tile with wrap-around in both axes.
type PatternShader struct {
	tile    *blend.Layer
	inv     geom.Transform // device to tile pixel space
	opacity float32
}

// NewPattern returns a shader for tile. tileToDevice maps tile pixel
// coordinates to device coordinates. A singular transform or an empty tile
// yields a transparent shader.
func NewPattern(tile *blend.Layer, tileToDevice geom.Transform, opacity float32) Shader {
	inv, ok := tileToDevice.Invert()
	if !ok || tile == nil || tile.Width == 0 || tile.Height == 0 {
		return Solid{}
	}
	return &PatternShader{tile: tile, inv: inv, opacity: opacity}
}

// At implements Shader. The tile is sampled bilinearly.
func (p *PatternShader) At(x, y float32) color.ColorF32 {
	u, v := p.inv.Apply(x, y)
	u -= 0.5
	v -= 0.5
	fu := math32.Floor(u)
	fv := math32.Floor(v)
	tx := u - fu
	ty := v - fv

	w, h := p.tile.Width, p.tile.Height
	x0 := wrap(int(fu), w)
	y0 := wrap(int(fv), h)
	x1 := wrap(x0+1, w)
	y1 := wrap(y0+1, h)

	top := p.tile.At(x0, y0).Lerp(p.tile.At(x1, y0), tx)
	bottom := p.tile.At(x0, y1).Lerp(p.tile.At(x1, y1), tx)
	c := top.Lerp(bottom, ty)
	if p.opacity < 1 {
		c = c.Scale(p.opacity)
	}
	return c
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
