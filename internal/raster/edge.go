package raster

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/geom"
)

// Edge represents a line segment for scanline rasterization.
type Edge struct {
	x0, y0 float32 // Start point (top)
	y1     float32 // End y (bottom)
	dx     float32 // dx/dy slope
	dir    int32   // Direction: +1 or -1
}

// NewEdge creates a new edge from two points. The second result is false
// for horizontal or non-finite edges, which never cross a scanline.
func NewEdge(p0, p1 geom.Point) (Edge, bool) {
	if !finite(p0.X) || !finite(p0.Y) || !finite(p1.X) || !finite(p1.Y) {
		return Edge{}, false
	}
	// direction before swap, for the non-zero winding rule
	dir := int32(1)
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	dy := p1.Y - p0.Y
	if dy == 0 {
		return Edge{}, false
	}
	return Edge{
		x0:  p0.X,
		y0:  p0.Y,
		y1:  p1.Y,
		dx:  (p1.X - p0.X) / dy,
		dir: dir,
	}, true
}

// XAtY calculates the x coordinate at the given y coordinate.
func (e *Edge) XAtY(y float32) float32 {
	return e.x0 + (y-e.y0)*e.dx
}

// buildEdges converts closed polygons to edges sorted by their top y.
func buildEdges(polygons [][]geom.Point) []Edge {
	n := 0
	for _, poly := range polygons {
		n += len(poly)
	}
	edges := make([]Edge, 0, n)
	for _, poly := range polygons {
		if len(poly) < 2 {
			continue
		}
		for i := range poly {
			j := i + 1
			if j == len(poly) {
				j = 0
			}
			if e, ok := NewEdge(poly[i], poly[j]); ok {
				edges = append(edges, e)
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].y0 < edges[j].y0 })
	return edges
}

// crossing is an edge intersection with a sample line.
type crossing struct {
	x   float32
	dir int32
}

// activeEdgeTable tracks the edges that span the current sample line.
type activeEdgeTable struct {
	edges  []Edge
	next   int
	active []int
	xs     []crossing
}

func newActiveEdgeTable(edges []Edge) *activeEdgeTable {
	return &activeEdgeTable{edges: edges}
}

// crossings returns the sorted intersections with the line y. Calls must
// use non-decreasing y.
func (t *activeEdgeTable) crossings(y float32) []crossing {
	for t.next < len(t.edges) && t.edges[t.next].y0 <= y {
		t.active = append(t.active, t.next)
		t.next++
	}
	t.xs = t.xs[:0]
	kept := t.active[:0]
	for _, i := range t.active {
		e := &t.edges[i]
		if e.y1 <= y {
			continue
		}
		kept = append(kept, i)
		if e.y0 <= y {
			t.xs = append(t.xs, crossing{x: e.XAtY(y), dir: e.dir})
		}
	}
	t.active = kept
	sort.Slice(t.xs, func(i, j int) bool { return t.xs[i].x < t.xs[j].x })
	return t.xs
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
