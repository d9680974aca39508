// Package geom provides the 2D affine and bounding-box algebra shared by the
// render tree, the path engine and the compositor.
package geom

import "github.com/chewxy/math32"

// Transform is a 2D affine transformation in column form:
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
//
// which maps a point as
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Transform struct {
	A, B, C, D, E, F float32
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translate creates a translation transform.
func Translate(tx, ty float32) Transform {
	return Transform{A: 1, D: 1, E: tx, F: ty}
}

// Scale creates a scaling transform.
func Scale(sx, sy float32) Transform {
	return Transform{A: sx, D: sy}
}

// Rotate creates a rotation transform (angle in radians, clockwise in a
// y-down coordinate system).
func Rotate(angle float32) Transform {
	sin, cos := math32.Sincos(angle)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// Compose returns parent × child: the child transform is applied first, then
// the parent. It is the operation used to derive absolute transforms.
func Compose(parent, child Transform) Transform {
	return parent.PreConcat(child)
}

// PreConcat returns t × other (other is applied first).
func (t Transform) PreConcat(other Transform) Transform {
	return Transform{
		A: t.A*other.A + t.C*other.B,
		B: t.B*other.A + t.D*other.B,
		C: t.A*other.C + t.C*other.D,
		D: t.B*other.C + t.D*other.D,
		E: t.A*other.E + t.C*other.F + t.E,
		F: t.B*other.E + t.D*other.F + t.F,
	}
}

// PostConcat returns other × t (t is applied first).
func (t Transform) PostConcat(other Transform) Transform {
	return other.PreConcat(t)
}

// PreTranslate is shorthand for t.PreConcat(Translate(tx, ty)).
func (t Transform) PreTranslate(tx, ty float32) Transform {
	return t.PreConcat(Translate(tx, ty))
}

// PreScale is shorthand for t.PreConcat(Scale(sx, sy)).
func (t Transform) PreScale(sx, sy float32) Transform {
	return t.PreConcat(Scale(sx, sy))
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// IsTranslate reports whether t has no scale, skew or rotation.
func (t Transform) IsTranslate() bool {
	return t.A == 1 && t.B == 0 && t.C == 0 && t.D == 1
}

// HasSkew reports whether t rotates or skews.
func (t Transform) HasSkew() bool {
	return t.B != 0 || t.C != 0
}

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float32 {
	return t.A*t.D - t.B*t.C
}

// IsInvertible reports whether t can be inverted and all entries are finite.
func (t Transform) IsInvertible() bool {
	if !t.IsFinite() {
		return false
	}
	return math32.Abs(t.Determinant()) > 1e-12
}

// IsFinite reports whether all entries are finite numbers.
func (t Transform) IsFinite() bool {
	for _, v := range [6]float32{t.A, t.B, t.C, t.D, t.E, t.F} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Invert returns the inverse transform. The second result is false when t is
// singular, in which case the identity is returned.
func (t Transform) Invert() (Transform, bool) {
	if !t.IsInvertible() {
		return Identity(), false
	}
	det := t.Determinant()
	inv := 1 / det
	return Transform{
		A: t.D * inv,
		B: -t.B * inv,
		C: -t.C * inv,
		D: t.A * inv,
		E: (t.C*t.F - t.D*t.E) * inv,
		F: (t.B*t.E - t.A*t.F) * inv,
	}, true
}

// Apply maps the point (x, y).
func (t Transform) Apply(x, y float32) (float32, float32) {
	return t.A*x + t.C*y + t.E, t.B*x + t.D*y + t.F
}

// TransformPoint maps a point.
func (t Transform) TransformPoint(p Point) Point {
	x, y := t.Apply(p.X, p.Y)
	return Point{X: x, Y: y}
}

// TransformVector maps a vector, ignoring translation.
func (t Transform) TransformVector(v Point) Point {
	return Point{X: t.A*v.X + t.C*v.Y, Y: t.B*v.X + t.D*v.Y}
}

// TransformRect maps the four corners of r and returns the axis-aligned
// bounding rect of the results.
func (t Transform) TransformRect(r Rect) Rect {
	if t.IsIdentity() {
		return r
	}
	var bb BBox
	bb.Add(t.TransformPoint(Point{X: r.X, Y: r.Y}))
	bb.Add(t.TransformPoint(Point{X: r.Right(), Y: r.Y}))
	bb.Add(t.TransformPoint(Point{X: r.Right(), Y: r.Bottom()}))
	bb.Add(t.TransformPoint(Point{X: r.X, Y: r.Bottom()}))
	out, _ := bb.Rect()
	return out
}

// ScaleFactors returns the lengths of the transformed unit vectors, i.e. how
// much t stretches distances along each axis.
func (t Transform) ScaleFactors() (sx, sy float32) {
	return math32.Hypot(t.A, t.B), math32.Hypot(t.C, t.D)
}

// MeanScale returns the geometric mean of the scale factors. It is used to
// convert device-space tolerances into user space.
func (t Transform) MeanScale() float32 {
	return math32.Sqrt(math32.Abs(t.Determinant()))
}
