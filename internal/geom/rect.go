package geom

import "github.com/chewxy/math32"

// Point is a 2D point or vector.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Mul returns p scaled by s.
func (p Point) Mul(s float32) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product.
func (p Point) Dot(q Point) float32 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the 3D cross product.
func (p Point) Cross(q Point) float32 { return p.X*q.Y - p.Y*q.X }

// Len returns the vector length.
func (p Point) Len() float32 { return math32.Hypot(p.X, p.Y) }

// Perp returns p rotated by 90 degrees (clockwise on a y-down canvas).
func (p Point) Perp() Point { return Point{X: -p.Y, Y: p.X} }

// Normalize returns a unit vector, or the zero vector for degenerate input.
func (p Point) Normalize() Point {
	l := p.Len()
	if l < 1e-12 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float32) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Size is a width/height pair.
type Size struct {
	W, H float32
}

// IsValid reports whether both dimensions are finite and positive.
func (s Size) IsValid() bool {
	return finite(s.W) && finite(s.H) && s.W > 0 && s.H > 0
}

// ToRect returns the rect (0, 0, W, H).
func (s Size) ToRect() Rect {
	return Rect{W: s.W, H: s.H}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float32
}

// RectFromLTRB builds a rect from its edges.
func RectFromLTRB(left, top, right, bottom float32) Rect {
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Right returns X+W.
func (r Rect) Right() float32 { return r.X + r.W }

// Bottom returns Y+H.
func (r Rect) Bottom() float32 { return r.Y + r.H }

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return !(r.W > 0 && r.H > 0)
}

// IsValid reports whether the rect has finite coordinates and non-negative
// dimensions.
func (r Rect) IsValid() bool {
	return finite(r.X) && finite(r.Y) && finite(r.W) && finite(r.H) && r.W >= 0 && r.H >= 0
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return RectFromLTRB(
		math32.Min(r.X, o.X),
		math32.Min(r.Y, o.Y),
		math32.Max(r.Right(), o.Right()),
		math32.Max(r.Bottom(), o.Bottom()),
	)
}

// Intersect returns the overlap of r and o. The second result is false when
// they do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	l := math32.Max(r.X, o.X)
	t := math32.Max(r.Y, o.Y)
	rr := math32.Min(r.Right(), o.Right())
	b := math32.Min(r.Bottom(), o.Bottom())
	if rr <= l || b <= t {
		return Rect{}, false
	}
	return RectFromLTRB(l, t, rr, b), true
}

// Contains reports whether o lies entirely inside r (edges inclusive).
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Expand grows the rect by d on every side.
func (r Rect) Expand(d float32) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Translate offsets the rect.
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// BBox accumulates points and rects into a bounding rectangle. The zero value
// is empty.
type BBox struct {
	minX, minY, maxX, maxY float32
	ok                     bool
}

// Add extends the box to include p.
func (b *BBox) Add(p Point) {
	if !b.ok {
		b.minX, b.maxX = p.X, p.X
		b.minY, b.maxY = p.Y, p.Y
		b.ok = true
		return
	}
	b.minX = math32.Min(b.minX, p.X)
	b.minY = math32.Min(b.minY, p.Y)
	b.maxX = math32.Max(b.maxX, p.X)
	b.maxY = math32.Max(b.maxY, p.Y)
}

// AddRect extends the box to include r.
func (b *BBox) AddRect(r Rect) {
	b.Add(Point{X: r.X, Y: r.Y})
	b.Add(Point{X: r.Right(), Y: r.Bottom()})
}

// Merge extends the box to include o.
func (b *BBox) Merge(o BBox) {
	if r, ok := o.Rect(); ok {
		b.AddRect(r)
	}
}

// IsEmpty reports whether nothing was added.
func (b BBox) IsEmpty() bool {
	return !b.ok
}

// Rect returns the accumulated rect. The second result is false when nothing
// was added. A box of collinear points has zero width or height but is still
// reported.
func (b BBox) Rect() (Rect, bool) {
	if !b.ok {
		return Rect{}, false
	}
	return RectFromLTRB(b.minX, b.minY, b.maxX, b.maxY), true
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
