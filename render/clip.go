// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/raster"
	"github.com/gogpu/rtree/tree"
)

// applyClip multiplies l by the coverage of cp. ts maps the clipped group's
// user space to the device.
func (c *compositor) applyClip(l *blend.Layer, cp *tree.ClipPath, ts geom.Transform) {
	m := c.clipMask(cp, ts)
	l.ApplyMask(m)
	c.putMask(m)
}

// clipMask rasterizes the content of cp as opaque coverage. Paint and
// strokes are ignored; each path keeps its fill rule. A nested clip path
// intersects the result.
func (c *compositor) clipMask(cp *tree.ClipPath, ts geom.Transform) *raster.Mask {
	m := c.getMask()
	if root := cp.Root(); root != nil {
		c.clipGroup(m, root, geom.Compose(ts, cp.Transform()))
	}
	if nested := cp.ClipPath(); nested != nil {
		nm := c.clipMask(nested, ts)
		m.Multiply(nm)
		c.putMask(nm)
	}
	return m
}

// clipGroup unions the coverage of g into m.
func (c *compositor) clipGroup(m *raster.Mask, g *tree.Group, ts geom.Transform) {
	ts = geom.Compose(ts, g.Transform())
	cp := g.ClipPath()
	if cp == nil {
		for _, child := range g.Children() {
			c.clipNode(m, child, ts)
		}
		return
	}

	gm := c.getMask()
	defer c.putMask(gm)
	for _, child := range g.Children() {
		c.clipNode(gm, child, ts)
	}
	inner := c.clipMask(cp, ts)
	gm.Multiply(inner)
	c.putMask(inner)
	m.Union(gm)
}

func (c *compositor) clipNode(m *raster.Mask, n tree.Node, ts geom.Transform) {
	switch n := n.(type) {
	case *tree.Group:
		c.clipGroup(m, n, ts)
	case *tree.Path:
		if !n.IsVisible() {
			return
		}
		polys := fillPolygons(n.Segments(), geom.Compose(ts, n.Transform()))
		if len(polys) == 0 {
			return
		}
		rule := raster.FillRuleNonZero
		if f := n.Fill(); f != nil {
			rule = f.Rule()
		}
		pm := c.getMask()
		c.rast.Fill(pm, polys, rule, n.AntiAlias())
		m.Union(pm)
		c.putMask(pm)
	case *tree.Text:
		if g := n.Flattened(); g != nil {
			c.clipGroup(m, g, geom.Compose(ts, n.Transform()))
		}
	}
}

// applyMask multiplies l by the coverage derived from mk. The content is
// rendered in the masked group's user space and limited to the mask rect;
// a nested mask applies to the content first.
func (c *compositor) applyMask(l *blend.Layer, mk *tree.Mask, ts geom.Transform) {
	ml := c.getLayer()
	defer c.putLayer(ml)
	if root := mk.Root(); root != nil {
		c.renderGroup(root, ts, ml)
	}
	c.clipToRect(ml, mk.Rect(), ts)
	if nested := mk.Mask(); nested != nil && !ml.Bounds.Empty() {
		c.applyMask(ml, nested, ts)
	}

	cov := c.getMask()
	defer c.putMask(cov)
	ml.ToMask(cov, mk.Kind() == tree.MaskLuminance)
	l.ApplyMask(cov)
}

// clipToRect limits l to r mapped by ts. Rects covering the whole layer
// leave it untouched.
func (c *compositor) clipToRect(l *blend.Layer, r geom.Rect, ts geom.Transform) {
	if l.Bounds.Empty() {
		return
	}
	if !ts.HasSkew() && ts.TransformRect(r).Contains(geom.Rect{W: float32(c.width), H: float32(c.height)}) {
		return
	}
	poly := []geom.Point{
		ts.TransformPoint(geom.Pt(r.X, r.Y)),
		ts.TransformPoint(geom.Pt(r.Right(), r.Y)),
		ts.TransformPoint(geom.Pt(r.Right(), r.Bottom())),
		ts.TransformPoint(geom.Pt(r.X, r.Bottom())),
	}
	m := c.getMask()
	c.rast.Fill(m, [][]geom.Point{poly}, raster.FillRuleNonZero, true)
	l.ApplyMask(m)
	c.putMask(m)
}
