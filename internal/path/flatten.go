package path

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/geom"
)

// DefaultTolerance is the maximum deviation, in device pixels, between a curve
// and its flattened polyline.
const DefaultTolerance = 0.25

// maxSubdivision bounds curve recursion for pathological control points.
const maxSubdivision = 16

// Flatten maps segments by ts and converts curves to line segments within
// tolerance (measured after the transform). Subpaths consisting of a lone
// MoveTo are dropped; a zero-length drawn subpath is kept so that stroking can
// place caps on it.
func Flatten(segs []Segment, ts geom.Transform, tolerance float32) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	f := flattener{tol: tolerance}
	for _, s := range segs {
		s = s.Transform(ts)
		switch s.Kind {
		case KindMoveTo:
			f.finish(false)
			f.start = s.End()
			f.cur = f.start
			f.pts = append(f.pts[:0], f.start)
		case KindLineTo:
			f.ensureStarted()
			f.lineTo(s.End())
		case KindQuadTo:
			f.ensureStarted()
			f.quadTo(s.Ctrl1(), s.End(), 0)
			f.drawn = true
		case KindCubicTo:
			f.ensureStarted()
			f.cubicTo(s.Ctrl1(), s.Ctrl2(), s.End(), 0)
			f.drawn = true
		case KindClose:
			if len(f.pts) > 0 {
				f.drawn = true
				f.finish(true)
				f.cur = f.start
			}
		}
	}
	f.finish(false)
	return f.out
}

type flattener struct {
	tol   float32
	start geom.Point
	cur   geom.Point
	pts   []geom.Point
	drawn bool
	out   []Polyline
}

// ensureStarted begins a new subpath at the last close point when drawing
// continues after Close without a MoveTo.
func (f *flattener) ensureStarted() {
	if len(f.pts) == 0 {
		f.pts = append(f.pts, f.cur)
		f.start = f.cur
	}
}

func (f *flattener) lineTo(p geom.Point) {
	f.pts = append(f.pts, p)
	f.cur = p
	f.drawn = true
}

func (f *flattener) finish(closed bool) {
	if len(f.pts) > 0 && f.drawn {
		pts := make([]geom.Point, len(f.pts))
		copy(pts, f.pts)
		if closed && len(pts) > 1 && pts[len(pts)-1] == pts[0] {
			pts = pts[:len(pts)-1]
		}
		if len(pts) == 1 {
			pts = append(pts, pts[0])
		}
		f.out = append(f.out, Polyline{Points: pts, Closed: closed})
	}
	f.pts = f.pts[:0]
	f.drawn = false
}

func (f *flattener) quadTo(c, p geom.Point, depth int) {
	p0 := f.cur
	if depth >= maxSubdivision || distanceToLine(c, p0, p) <= f.tol {
		f.pts = append(f.pts, p)
		f.cur = p
		return
	}
	q0 := p0.Lerp(c, 0.5)
	q1 := c.Lerp(p, 0.5)
	mid := q0.Lerp(q1, 0.5)
	f.quadTo(q0, mid, depth+1)
	f.quadTo(q1, p, depth+1)
}

func (f *flattener) cubicTo(c1, c2, p geom.Point, depth int) {
	p0 := f.cur
	dist := math32.Max(distanceToLine(c1, p0, p), distanceToLine(c2, p0, p))
	if depth >= maxSubdivision || dist <= f.tol {
		f.pts = append(f.pts, p)
		f.cur = p
		return
	}
	// de Casteljau split at t=0.5
	q0 := p0.Lerp(c1, 0.5)
	q1 := c1.Lerp(c2, 0.5)
	q2 := c2.Lerp(p, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)
	f.cubicTo(q0, r0, s, depth+1)
	f.cubicTo(r1, q2, p, depth+1)
}

// distanceToLine returns the distance from p to the segment (a, b).
func distanceToLine(p, a, b geom.Point) float32 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-12 {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / l2
	switch {
	case t < 0:
		return p.Sub(a).Len()
	case t > 1:
		return p.Sub(b).Len()
	}
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
