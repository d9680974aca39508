// Package path provides internal path processing: segment storage, curve
// flattening, exact bounds and dash splitting.
package path

import "github.com/gogpu/rtree/internal/geom"

// SegmentKind identifies a path command.
type SegmentKind uint8

const (
	// KindMoveTo starts a new subpath at (X, Y).
	KindMoveTo SegmentKind = iota
	// KindLineTo draws a line to (X, Y).
	KindLineTo
	// KindQuadTo draws a quadratic curve via (X1, Y1) to (X, Y).
	KindQuadTo
	// KindCubicTo draws a cubic curve via (X1, Y1) and (X2, Y2) to (X, Y).
	KindCubicTo
	// KindClose closes the current subpath.
	KindClose
)

// String returns the SVG command letter for the kind.
func (k SegmentKind) String() string {
	switch k {
	case KindMoveTo:
		return "M"
	case KindLineTo:
		return "L"
	case KindQuadTo:
		return "Q"
	case KindCubicTo:
		return "C"
	case KindClose:
		return "Z"
	default:
		return "?"
	}
}

// Segment is a single path command with absolute coordinates.
// (X, Y) is the end point; (X1, Y1) and (X2, Y2) are control points for
// curves and unused otherwise.
type Segment struct {
	Kind   SegmentKind
	X, Y   float32
	X1, Y1 float32
	X2, Y2 float32
}

// MoveTo returns a MoveTo segment.
func MoveTo(x, y float32) Segment { return Segment{Kind: KindMoveTo, X: x, Y: y} }

// LineTo returns a LineTo segment.
func LineTo(x, y float32) Segment { return Segment{Kind: KindLineTo, X: x, Y: y} }

// QuadTo returns a QuadTo segment.
func QuadTo(x1, y1, x, y float32) Segment {
	return Segment{Kind: KindQuadTo, X1: x1, Y1: y1, X: x, Y: y}
}

// CubicTo returns a CubicTo segment.
func CubicTo(x1, y1, x2, y2, x, y float32) Segment {
	return Segment{Kind: KindCubicTo, X1: x1, Y1: y1, X2: x2, Y2: y2, X: x, Y: y}
}

// Close returns a Close segment.
func Close() Segment { return Segment{Kind: KindClose} }

// End returns the segment end point.
func (s Segment) End() geom.Point { return geom.Point{X: s.X, Y: s.Y} }

// Ctrl1 returns the first control point.
func (s Segment) Ctrl1() geom.Point { return geom.Point{X: s.X1, Y: s.Y1} }

// Ctrl2 returns the second control point.
func (s Segment) Ctrl2() geom.Point { return geom.Point{X: s.X2, Y: s.Y2} }

// Transform returns the segment with every point mapped by ts.
func (s Segment) Transform(ts geom.Transform) Segment {
	s.X, s.Y = ts.Apply(s.X, s.Y)
	switch s.Kind {
	case KindQuadTo:
		s.X1, s.Y1 = ts.Apply(s.X1, s.Y1)
	case KindCubicTo:
		s.X1, s.Y1 = ts.Apply(s.X1, s.Y1)
		s.X2, s.Y2 = ts.Apply(s.X2, s.Y2)
	case KindClose:
		s.X, s.Y = 0, 0
	}
	return s
}

// Validate checks the structural invariant: a non-empty sequence starts with
// MoveTo and every coordinate is finite.
func Validate(segs []Segment) bool {
	if len(segs) == 0 {
		return true
	}
	if segs[0].Kind != KindMoveTo {
		return false
	}
	for _, s := range segs {
		if s.Kind > KindClose {
			return false
		}
		if !finite(s.X) || !finite(s.Y) || !finite(s.X1) || !finite(s.Y1) || !finite(s.X2) || !finite(s.Y2) {
			return false
		}
	}
	return true
}

// Polyline is a flattened subpath. A closed polyline has an implicit edge
// from its last point back to its first.
type Polyline struct {
	Points []geom.Point
	Closed bool
}

// TransformPolylines maps every point of every polyline in place.
func TransformPolylines(lines []Polyline, ts geom.Transform) {
	if ts.IsIdentity() {
		return
	}
	for i := range lines {
		pts := lines[i].Points
		for j := range pts {
			pts[j] = ts.TransformPoint(pts[j])
		}
	}
}

// Length returns the arc length of the polyline, including the closing edge.
func (p Polyline) Length() float32 {
	var l float32
	for i := 1; i < len(p.Points); i++ {
		l += p.Points[i].Sub(p.Points[i-1]).Len()
	}
	if p.Closed && len(p.Points) > 1 {
		l += p.Points[0].Sub(p.Points[len(p.Points)-1]).Len()
	}
	return l
}
