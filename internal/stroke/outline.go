package stroke

import (
	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/path"
)

// Dash describes a dash pattern. An empty or invalid Array means solid.
type Dash struct {
	Array  []float32
	Offset float32
}

// Outline strokes segs in their local space and returns the pieces mapped
// to device space by ts. Stroke width, dashes and joins are therefore
// interpreted before the transform, so non-uniform scales distort the pen
// the same way they distort the geometry. tol is the device-space
// flattening tolerance.
func Outline(segs []path.Segment, ts geom.Transform, style Stroke, dash Dash, tol float32) [][]geom.Point {
	if !(style.Width > 0) || !ts.IsInvertible() {
		return nil
	}
	scale := ts.MeanScale()
	local := tol / scale

	lines := path.Flatten(segs, geom.Identity(), local)
	lines = path.Dash(lines, dash.Array, dash.Offset)

	e := NewStrokeExpander(style)
	e.SetTolerance(local)
	polys := e.Expand(lines)
	if !ts.IsIdentity() {
		for _, poly := range polys {
			for i, p := range poly {
				poly[i] = ts.TransformPoint(p)
			}
		}
	}
	return polys
}
