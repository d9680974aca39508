// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/internal/cache"
	"github.com/gogpu/rtree/internal/color"
	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/paint"
	"github.com/gogpu/rtree/internal/path"
	"github.com/gogpu/rtree/internal/raster"
	"github.com/gogpu/rtree/internal/stroke"
	"github.com/gogpu/rtree/tree"
)

// compositor holds the state of one render call at one target size. It is
// used by a single goroutine; band parallelism happens below it.
type compositor struct {
	pool   *blend.Pool
	images *cache.Sharded[*tree.Image, *image.RGBA]
	width  int
	height int
	rast   *raster.Rasterizer

	// masks is a free list of cleared coverage buffers.
	masks []*raster.Mask
}

func (r *Renderer) newCompositor(width, height int) *compositor {
	return &compositor{
		pool:   r.pool,
		images: r.images,
		width:  width,
		height: height,
		rast:   raster.NewRasterizer(width, height),
	}
}

// sub returns a compositor for an offscreen surface of another size, sharing
// the layer pool.
func (c *compositor) sub(width, height int) *compositor {
	return &compositor{
		pool:   c.pool,
		images: c.images,
		width:  width,
		height: height,
		rast:   raster.NewRasterizer(width, height),
	}
}

func (c *compositor) getLayer() *blend.Layer {
	if c.pool == nil {
		return blend.GetFromDefault(c.width, c.height)
	}
	return c.pool.Get(c.width, c.height)
}

func (c *compositor) putLayer(l *blend.Layer) {
	if c.pool == nil {
		blend.PutToDefault(l)
		return
	}
	c.pool.Put(l)
}

func (c *compositor) getMask() *raster.Mask {
	if n := len(c.masks); n > 0 {
		m := c.masks[n-1]
		c.masks = c.masks[:n-1]
		return m
	}
	return raster.NewMask(c.width, c.height)
}

func (c *compositor) putMask(m *raster.Mask) {
	m.Reset()
	c.masks = append(c.masks, m)
}

// renderNode paints n, whose parent space is mapped to the device by ts.
func (c *compositor) renderNode(n tree.Node, ts geom.Transform, dst *blend.Layer) {
	switch n := n.(type) {
	case *tree.Group:
		c.renderGroup(n, ts, dst)
	case *tree.Path:
		c.renderPath(n, ts, dst)
	case *tree.Image:
		c.renderImage(n, ts, dst)
	case *tree.Text:
		if g := n.Flattened(); g != nil {
			c.renderGroup(g, geom.Compose(ts, n.Transform()), dst)
		}
	}
}

// renderGroup paints g. Groups that need a layer are fully composited,
// clip and mask included, before they are blended into dst.
func (c *compositor) renderGroup(g *tree.Group, ts geom.Transform, dst *blend.Layer) {
	ts = geom.Compose(ts, g.Transform())
	if !g.NeedsLayer() {
		for _, child := range g.Children() {
			c.renderNode(child, ts, dst)
		}
		return
	}
	if g.Opacity() <= 0 {
		return
	}

	l := c.getLayer()
	defer c.putLayer(l)
	for _, child := range g.Children() {
		c.renderNode(child, ts, l)
	}
	if l.Bounds.Empty() {
		return
	}
	if cp := g.ClipPath(); cp != nil {
		c.applyClip(l, cp, ts)
	}
	if m := g.Mask(); m != nil {
		c.applyMask(l, m, ts)
	}
	dst.Composite(l, g.Opacity(), g.BlendMode())
}

// renderPath paints the fill, then the stroke.
func (c *compositor) renderPath(p *tree.Path, ts geom.Transform, dst *blend.Layer) {
	if !p.IsVisible() {
		return
	}
	abs := geom.Compose(ts, p.Transform())
	aa := p.AntiAlias()

	if f := p.Fill(); f != nil {
		polys := fillPolygons(p.Segments(), abs)
		c.paintPolygons(dst, polys, f.Rule(), aa, f.Paint(), f.Opacity(), abs)
	}
	if s := p.Stroke(); s != nil {
		polys := stroke.Outline(p.Segments(), abs, s.Style(), s.DashPattern(), path.DefaultTolerance)
		c.paintPolygons(dst, polys, raster.FillRuleNonZero, aa, s.Paint(), s.Opacity(), abs)
	}
}

// fillPolygons flattens segs into device-space polygons. Every subpath is
// implicitly closed.
func fillPolygons(segs []path.Segment, ts geom.Transform) [][]geom.Point {
	lines := path.Flatten(segs, ts, path.DefaultTolerance)
	polys := make([][]geom.Point, 0, len(lines))
	for _, l := range lines {
		if len(l.Points) >= 3 {
			polys = append(polys, l.Points)
		}
	}
	return polys
}

// paintPolygons rasterizes polys and shades the covered pixels with p.
// ts maps the path's user space to the device.
func (c *compositor) paintPolygons(dst *blend.Layer, polys [][]geom.Point, rule raster.FillRule, aa bool,
	p tree.Paint, opacity float32, ts geom.Transform) {
	if len(polys) == 0 || opacity <= 0 {
		return
	}
	sh, release := c.shader(p, opacity, ts)
	defer release()
	if sh == nil {
		return
	}

	m := c.getMask()
	defer c.putMask(m)
	c.rast.Fill(m, polys, rule, aa)

	if solid, ok := sh.(paint.Solid); ok {
		col := color.ColorF32(solid)
		if col.A <= 0 {
			return
		}
		dst.FillMask(m, func(int, int) color.ColorF32 { return col })
		return
	}
	dst.FillMask(m, func(x, y int) color.ColorF32 {
		return sh.At(float32(x)+0.5, float32(y)+0.5)
	})
}
