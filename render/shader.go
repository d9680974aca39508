// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/paint"
	"github.com/gogpu/rtree/tree"
)

// maxTileSize bounds the pixel size of a pattern tile along each axis.
const maxTileSize = 4096

func noRelease() {}

// shader resolves p for a path whose user space is mapped to the device by
// ts. The release func must be called once painting is done.
func (c *compositor) shader(p tree.Paint, opacity float32, ts geom.Transform) (paint.Shader, func()) {
	switch p := p.(type) {
	case tree.Color:
		return paint.NewSolid(p.F32(), opacity), noRelease
	case *tree.LinearGradient:
		x1, y1, x2, y2 := p.Points()
		return paint.NewLinear(x1, y1, x2, y2, p.ColorStops(), p.Spread(),
			geom.Compose(ts, p.Transform()), opacity), noRelease
	case *tree.RadialGradient:
		cx, cy, r := p.Circle()
		fx, fy := p.Focus()
		return paint.NewRadial(cx, cy, r, fx, fy, p.ColorStops(), p.Spread(),
			geom.Compose(ts, p.Transform()), opacity), noRelease
	case *tree.Pattern:
		if p != nil {
			return c.patternShader(p, opacity, ts)
		}
	}
	return nil, noRelease
}

// patternShader renders one tile of p at device resolution and returns a
// shader repeating it. The tile content is laid out relative to the tile
// origin; the tile is placed at the pattern rect in pattern space.
func (c *compositor) patternShader(p *tree.Pattern, opacity float32, ts geom.Transform) (paint.Shader, func()) {
	rect := p.Rect()
	if !rect.IsValid() || rect.IsEmpty() || p.Root() == nil {
		return nil, noRelease
	}
	pts := geom.Compose(ts, p.Transform())
	if !pts.IsInvertible() {
		return nil, noRelease
	}
	sx, sy := pts.ScaleFactors()
	tw, th := tileSize(rect.W*sx), tileSize(rect.H*sy)
	kx, ky := float32(tw)/rect.W, float32(th)/rect.H

	sub := c.sub(tw, th)
	tile := sub.getLayer()
	sub.renderGroup(p.Root(), geom.Scale(kx, ky), tile)

	tileToDevice := pts.PreTranslate(rect.X, rect.Y).PreScale(1/kx, 1/ky)
	return paint.NewPattern(tile, tileToDevice, opacity), func() { sub.putLayer(tile) }
}

func tileSize(v float32) int {
	if !(v > 0) {
		return 1
	}
	return min(max(int(math32.Ceil(v)), 1), maxTileSize)
}
