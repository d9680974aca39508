package stroke

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/path"
)

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinMiterClip specifies a miter that is clipped instead of beveled
	// when it exceeds the limit.
	LineJoinMiterClip
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// Stroke defines the style for stroke expansion.
type Stroke struct {
	Width      float32
	Cap        LineCap
	Join       LineJoin
	MiterLimit float32
}

// DefaultStroke returns a stroke with default settings.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
	}
}

// StrokeExpander converts stroked polylines to filled polygons.
type StrokeExpander struct {
	style Stroke

	// Tolerance for arc approximation, in the units of the input.
	tolerance float32

	out [][]geom.Point
}

// NewStrokeExpander creates a new stroke expander with the given style.
func NewStrokeExpander(style Stroke) *StrokeExpander {
	if style.MiterLimit < 1 {
		style.MiterLimit = 1
	}
	return &StrokeExpander{
		style:     style,
		tolerance: 0.25,
	}
}

// SetTolerance sets the arc approximation tolerance.
func (e *StrokeExpander) SetTolerance(tolerance float32) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// Expand returns convex polygons whose nonzero union is the stroke outline
// of lines. Every polygon has positive signed area. A non-positive width
// yields nothing.
func (e *StrokeExpander) Expand(lines []path.Polyline) [][]geom.Point {
	e.out = nil
	if !(e.style.Width > 0) {
		return nil
	}
	for _, pl := range lines {
		e.expandOne(pl)
	}
	return e.out
}

func (e *StrokeExpander) hw() float32 {
	return e.style.Width / 2
}

func (e *StrokeExpander) expandOne(pl path.Polyline) {
	pts := dedup(pl.Points)
	closed := pl.Closed
	if closed && len(pts) > 1 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	switch {
	case len(pts) == 0:
		return
	case len(pts) == 1:
		e.dot(pts[0])
		return
	case len(pts) == 2:
		closed = false
	}

	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		e.segment(pts[i], pts[(i+1)%n])
	}

	// interior joins
	for i := 1; i < n-1; i++ {
		e.join(pts[i-1], pts[i], pts[i+1])
	}
	if closed {
		e.join(pts[n-2], pts[n-1], pts[0])
		e.join(pts[n-1], pts[0], pts[1])
		return
	}

	e.cap(pts[0], pts[0].Sub(pts[1]).Normalize())
	e.cap(pts[n-1], pts[n-1].Sub(pts[n-2]).Normalize())
}

// dedup drops consecutive duplicate points.
func dedup(pts []geom.Point) []geom.Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]geom.Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func (e *StrokeExpander) segment(a, b geom.Point) {
	norm := b.Sub(a).Normalize().Perp().Mul(e.hw())
	e.emit(a.Add(norm), b.Add(norm), b.Sub(norm), a.Sub(norm))
}

// join adds the outer wedge at vertex v between segments (prev, v) and
// (v, next).
func (e *StrokeExpander) join(prev, v, next geom.Point) {
	ab := v.Sub(prev).Normalize()
	cd := next.Sub(v).Normalize()
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)

	// collinear continuation: the quads already meet
	if dot > 0 && math32.Abs(cross) < 1e-6 {
		return
	}

	// the outer side is opposite to the turn direction
	side := float32(1)
	if cross > 0 {
		side = -1
	}
	hw := e.hw()
	n0 := ab.Perp().Mul(side * hw)
	n1 := cd.Perp().Mul(side * hw)
	p0 := v.Add(n0)
	p1 := v.Add(n1)

	switch e.style.Join {
	case LineJoinBevel:
		e.emit(v, p0, p1)
	case LineJoinRound:
		e.arc(v, n0, n1, ab)
	case LineJoinMiter, LineJoinMiterClip:
		e.miter(v, p0, p1, n0, n1, ab, cd, dot)
	}
}

func (e *StrokeExpander) miter(v, p0, p1, n0, n1, ab, cd geom.Point, dot float32) {
	limit := e.style.MiterLimit
	// miter length / width = 1/sin(theta/2), compared squared
	if 2 < (1+dot)*limit*limit {
		bis := n0.Add(n1).Normalize()
		ratio := 1 / math32.Sqrt((1+dot)/2)
		m := v.Add(bis.Mul(e.hw() * ratio))
		e.emit(v, p0, m, p1)
		return
	}
	if e.style.Join == LineJoinMiter {
		e.emit(v, p0, p1)
		return
	}

	// clip the miter with a line perpendicular to the bisector
	bis := n0.Add(n1)
	if bis.Len() < 1e-6 {
		bis = ab
	}
	bis = bis.Normalize()
	clip := limit * e.hw()
	c0 := clipAlong(v, p0, ab, bis, clip)
	c1 := clipAlong(v, p1, cd.Mul(-1), bis, clip)
	e.emit(v, p0, c0, c1, p1)
}

// clipAlong moves from p along dir until its projection on bis, measured
// from v, reaches dist.
func clipAlong(v, p, dir, bis geom.Point, dist float32) geom.Point {
	den := dir.Dot(bis)
	if math32.Abs(den) < 1e-9 {
		return p
	}
	t := (dist - p.Sub(v).Dot(bis)) / den
	return p.Add(dir.Mul(t))
}

// arc emits a circular sector around c sweeping from offset n0 to offset
// n1. For a full reversal the arc passes through the incoming direction ab.
func (e *StrokeExpander) arc(c, n0, n1, ab geom.Point) {
	a0 := math32.Atan2(n0.Y, n0.X)
	cross := n0.Cross(n1)
	dot := n0.Dot(n1)
	sweep := math32.Atan2(cross, dot)
	if dot < 0 && math32.Abs(cross) < -1e-6*dot {
		sweep = math32.Pi
		if n0.Perp().Dot(ab) < 0 {
			sweep = -math32.Pi
		}
	}
	if sweep == 0 {
		return
	}
	pts := []geom.Point{c}
	pts = e.appendArc(pts, c, a0, sweep)
	e.emit(pts...)
}

// appendArc appends points on the circle of radius width/2 around c from
// angle a0 through sweep radians.
func (e *StrokeExpander) appendArc(pts []geom.Point, c geom.Point, a0, sweep float32) []geom.Point {
	r := e.hw()
	steps := arcSteps(r, math32.Abs(sweep), e.tolerance)
	for i := 0; i <= steps; i++ {
		sin, cos := math32.Sincos(a0 + sweep*float32(i)/float32(steps))
		pts = append(pts, geom.Point{X: c.X + r*cos, Y: c.Y + r*sin})
	}
	return pts
}

// arcSteps returns the number of chords needed to keep an arc of radius r
// within tol of the true circle.
func arcSteps(r, sweep, tol float32) int {
	if r <= tol {
		return max(1, int(math32.Ceil(sweep/(math32.Pi/2))))
	}
	step := 2 * math32.Acos(1-tol/r)
	n := int(math32.Ceil(sweep / step))
	return min(max(n, 1), 1024)
}

// cap adds the cap at endpoint p; dir points outward, away from the stroke.
func (e *StrokeExpander) cap(p, dir geom.Point) {
	hw := e.hw()
	norm := dir.Perp().Mul(hw)
	switch e.style.Cap {
	case LineCapButt:
	case LineCapSquare:
		ext := dir.Mul(hw)
		e.emit(p.Add(norm), p.Add(norm).Add(ext), p.Sub(norm).Add(ext), p.Sub(norm))
	case LineCapRound:
		// half turn from norm through dir to -norm
		a0 := math32.Atan2(norm.Y, norm.X)
		e.emit(e.appendArc(nil, p, a0, -math32.Pi)...)
	}
}

// dot draws a zero-length subpath.
func (e *StrokeExpander) dot(p geom.Point) {
	hw := e.hw()
	switch e.style.Cap {
	case LineCapButt:
	case LineCapSquare:
		e.emit(
			geom.Point{X: p.X - hw, Y: p.Y - hw},
			geom.Point{X: p.X + hw, Y: p.Y - hw},
			geom.Point{X: p.X + hw, Y: p.Y + hw},
			geom.Point{X: p.X - hw, Y: p.Y + hw},
		)
	case LineCapRound:
		pts := e.appendArc(nil, p, 0, 2*math32.Pi)
		e.emit(pts[:len(pts)-1]...)
	}
}

// emit records a polygon with positive signed area, dropping degenerate
// ones.
func (e *StrokeExpander) emit(pts ...geom.Point) {
	area := SignedArea(pts)
	if math32.Abs(area) < 1e-12 || math32.IsNaN(area) {
		return
	}
	poly := make([]geom.Point, len(pts))
	if area > 0 {
		copy(poly, pts)
	} else {
		for i, p := range pts {
			poly[len(pts)-1-i] = p
		}
	}
	e.out = append(e.out, poly)
}

// SignedArea returns twice the signed area of the polygon (shoelace).
func SignedArea(pts []geom.Point) float32 {
	var a float32
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].Cross(pts[j])
	}
	return a
}
