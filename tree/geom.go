package tree

import (
	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/path"
)

// Transform is a 2D affine transform mapping (x, y) to
// (A*x + C*y + E, B*x + D*y + F).
type Transform = geom.Transform

// Rect is an axis-aligned rectangle.
type Rect = geom.Rect

// Size is a width/height pair.
type Size = geom.Size

// Point is a 2D point.
type Point = geom.Point

// Segment is a path command with absolute coordinates.
type Segment = path.Segment

// SegmentKind identifies a path command.
type SegmentKind = path.SegmentKind

// Path command kinds.
const (
	KindMoveTo  = path.KindMoveTo
	KindLineTo  = path.KindLineTo
	KindQuadTo  = path.KindQuadTo
	KindCubicTo = path.KindCubicTo
	KindClose   = path.KindClose
)

// Identity returns the identity transform.
func Identity() Transform { return geom.Identity() }

// Translate returns a translation.
func Translate(tx, ty float32) Transform { return geom.Translate(tx, ty) }

// Scale returns a scale.
func Scale(sx, sy float32) Transform { return geom.Scale(sx, sy) }

// Rotate returns a rotation by angle radians.
func Rotate(angle float32) Transform { return geom.Rotate(angle) }

// Compose returns parent × child.
func Compose(parent, child Transform) Transform { return geom.Compose(parent, child) }

// MoveTo returns a MoveTo segment.
func MoveTo(x, y float32) Segment { return path.MoveTo(x, y) }

// LineTo returns a LineTo segment.
func LineTo(x, y float32) Segment { return path.LineTo(x, y) }

// QuadTo returns a QuadTo segment.
func QuadTo(x1, y1, x, y float32) Segment { return path.QuadTo(x1, y1, x, y) }

// CubicTo returns a CubicTo segment.
func CubicTo(x1, y1, x2, y2, x, y float32) Segment { return path.CubicTo(x1, y1, x2, y2, x, y) }

// Close returns a Close segment.
func Close() Segment { return path.Close() }
