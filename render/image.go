// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/tree"
)

// renderImage paints a raster or nested SVG image into (0, 0, size) of its
// own coordinate system.
func (c *compositor) renderImage(img *tree.Image, ts geom.Transform, dst *blend.Layer) {
	if !img.IsVisible() || !img.Size().IsValid() {
		return
	}
	abs := geom.Compose(ts, img.Transform())
	if img.Kind() == tree.ImageSVG {
		c.renderSVGImage(img.SVG(), img.Size(), abs, dst)
		return
	}
	if img.Raster() != nil {
		c.renderRasterImage(c.rasterRGBA(img), img.Size(), img.Rendering().Smooth(), abs, dst)
	}
}

// rasterRGBA returns the image payload as premultiplied RGBA, converting
// it on first use.
func (c *compositor) rasterRGBA(img *tree.Image) *image.RGBA {
	convert := func() *image.RGBA {
		src := img.Raster()
		if rgba, ok := src.(*image.RGBA); ok {
			return rgba
		}
		b := src.Bounds()
		rgba := image.NewRGBA(b)
		draw.Draw(rgba, b, src, b.Min, draw.Src)
		return rgba
	}
	if c.images == nil {
		return convert()
	}
	return c.images.GetOrCreate(img, convert)
}

// renderRasterImage resamples src onto dst. Smooth images use Catmull-Rom,
// others nearest neighbour.
func (c *compositor) renderRasterImage(src image.Image, size geom.Size, smooth bool, ts geom.Transform, dst *blend.Layer) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	s2d := ts.
		PreScale(size.W/float32(sb.Dx()), size.H/float32(sb.Dy())).
		PreTranslate(-float32(sb.Min.X), -float32(sb.Min.Y))
	if !s2d.IsInvertible() {
		return
	}

	area := deviceRect(s2d.TransformRect(geom.Rect{
		X: float32(sb.Min.X),
		Y: float32(sb.Min.Y),
		W: float32(sb.Dx()),
		H: float32(sb.Dy()),
	})).Intersect(dst.Rect())
	if area.Empty() {
		return
	}

	var interp draw.Interpolator = draw.CatmullRom
	if !smooth {
		interp = draw.NearestNeighbor
	}
	tmp := image.NewRGBA(area)
	aff := f64.Aff3{
		float64(s2d.A), float64(s2d.C), float64(s2d.E),
		float64(s2d.B), float64(s2d.D), float64(s2d.F),
	}
	interp.Transform(tmp, aff, src, sb, draw.Src, nil)
	dst.DrawRGBA(tmp, area)
}

// renderSVGImage renders sub scaled onto (0, 0, size) and clipped to it.
func (c *compositor) renderSVGImage(sub *tree.Tree, size geom.Size, ts geom.Transform, dst *blend.Layer) {
	if sub == nil || sub.IsEmpty() {
		return
	}
	ss := sub.Size()
	ts = ts.PreScale(size.W/ss.W, size.H/ss.H)

	l := c.getLayer()
	defer c.putLayer(l)
	c.renderGroup(sub.Root(), geom.Compose(ts, sub.ViewBoxTransform()), l)
	c.clipToRect(l, ss.ToRect(), ts)
	dst.Composite(l, 1, blend.BlendNormal)
}

// deviceRect returns the pixel rectangle covering r.
func deviceRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math32.Floor(r.X)),
		int(math32.Floor(r.Y)),
		int(math32.Ceil(r.Right())),
		int(math32.Ceil(r.Bottom())),
	)
}
