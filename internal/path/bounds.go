package path

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/geom"
)

// Bounds returns the exact bounding rect of segs mapped by ts. Curves
// contribute their extrema rather than their control points. The second
// result is false for an empty sequence.
func Bounds(segs []Segment, ts geom.Transform) (geom.Rect, bool) {
	var bb geom.BBox
	var cur, start geom.Point
	for _, s := range segs {
		s = s.Transform(ts)
		switch s.Kind {
		case KindMoveTo:
			cur = s.End()
			start = cur
			bb.Add(cur)
		case KindLineTo:
			cur = s.End()
			bb.Add(cur)
		case KindQuadTo:
			quadExtrema(&bb, cur, s.Ctrl1(), s.End())
			cur = s.End()
		case KindCubicTo:
			cubicExtrema(&bb, cur, s.Ctrl1(), s.Ctrl2(), s.End())
			cur = s.End()
		case KindClose:
			cur = start
		}
	}
	return bb.Rect()
}

func quadExtrema(bb *geom.BBox, p0, p1, p2 geom.Point) {
	bb.Add(p0)
	bb.Add(p2)
	for _, t := range [2]float32{
		quadRoot(p0.X, p1.X, p2.X),
		quadRoot(p0.Y, p1.Y, p2.Y),
	} {
		if t > 0 && t < 1 {
			bb.Add(evalQuad(p0, p1, p2, t))
		}
	}
}

// quadRoot returns the parameter where the derivative of a 1D quadratic
// vanishes, or -1 if there is none.
func quadRoot(a, b, c float32) float32 {
	d := a - 2*b + c
	if d == 0 {
		return -1
	}
	return (a - b) / d
}

func evalQuad(p0, p1, p2 geom.Point, t float32) geom.Point {
	mt := 1 - t
	return geom.Point{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func cubicExtrema(bb *geom.BBox, p0, p1, p2, p3 geom.Point) {
	bb.Add(p0)
	bb.Add(p3)
	var roots [4]float32
	n := cubicRoots(p0.X, p1.X, p2.X, p3.X, roots[:0])
	n = cubicRoots(p0.Y, p1.Y, p2.Y, p3.Y, n)
	for _, t := range n {
		bb.Add(evalCubic(p0, p1, p2, p3, t))
	}
}

// cubicRoots appends the parameters in (0, 1) where the derivative of a 1D
// cubic Bezier vanishes.
func cubicRoots(p0, p1, p2, p3 float32, dst []float32) []float32 {
	// B'(t)/3 = a t^2 + b t + c
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0
	add := func(t float32) {
		if t > 0 && t < 1 {
			dst = append(dst, t)
		}
	}
	if math32.Abs(a) < 1e-12 {
		if b != 0 {
			add(-c / b)
		}
		return dst
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return dst
	}
	sq := math32.Sqrt(disc)
	add((-b + sq) / (2 * a))
	add((-b - sq) / (2 * a))
	return dst
}

func evalCubic(p0, p1, p2, p3 geom.Point, t float32) geom.Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return geom.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
