// Package raster provides scanline rasterization of polygons into coverage
// masks.
//
// Anti-aliased fills sample 4 sub-scanlines per pixel row and compute the
// exact horizontal coverage of every span on each sub-scanline, so vertical
// edges on pixel boundaries produce no bleed. Crisp fills sample once at the
// pixel center.
package raster

import (
	"image"
	"runtime"

	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/rtree/internal/geom"
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule uint8

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// SubScanlines is the number of vertical samples per pixel row in
// anti-aliased mode.
const SubScanlines = 4

const (
	// bandRows is the height of a row band processed by one goroutine.
	bandRows = 64
	// parallelMinRows is the smallest touched height worth splitting.
	parallelMinRows = 4 * bandRows
	// parallelMinEdges is the smallest edge count worth splitting.
	parallelMinEdges = 64
)

// Mask is a coverage buffer with one float32 in [0, 1] per pixel.
// Bounds tracks the region that may hold non-zero values.
type Mask struct {
	Width, Height int
	Data          []float32
	Bounds        image.Rectangle
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}
}

// At returns the coverage at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Data[y*m.Width+x]
}

// Reset clears the touched region.
func (m *Mask) Reset() {
	for y := m.Bounds.Min.Y; y < m.Bounds.Max.Y; y++ {
		row := m.Data[y*m.Width : (y+1)*m.Width]
		clear(row[m.Bounds.Min.X:m.Bounds.Max.X])
	}
	m.Bounds = image.Rectangle{}
}

// Multiply scales every value by the corresponding value of o. Both masks
// must have the same dimensions.
func (m *Mask) Multiply(o *Mask) {
	b := m.Bounds
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Data[y*m.Width : (y+1)*m.Width]
		orow := o.Data[y*o.Width : (y+1)*o.Width]
		for x := b.Min.X; x < b.Max.X; x++ {
			row[x] *= orow[x]
		}
	}
	m.Bounds = m.Bounds.Intersect(o.Bounds)
}

// Union combines o into m as a + b - a*b, the coverage of either shape.
func (m *Mask) Union(o *Mask) {
	b := o.Bounds
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Data[y*m.Width : (y+1)*m.Width]
		orow := o.Data[y*o.Width : (y+1)*o.Width]
		for x := b.Min.X; x < b.Max.X; x++ {
			a, c := row[x], orow[x]
			row[x] = a + c - a*c
		}
	}
	m.Bounds = m.Bounds.Union(b)
}

// Rasterizer performs scanline rasterization into masks.
type Rasterizer struct {
	width  int
	height int
}

// NewRasterizer creates a new rasterizer for the given dimensions.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{width: width, height: height}
}

// Fill rasterizes closed polygons into mask, which must be empty and have
// the rasterizer's dimensions. Coverage from all polygons is combined under
// a single fill rule, so subpaths interact as in one path.
func (r *Rasterizer) Fill(mask *Mask, polygons [][]geom.Point, rule FillRule, antiAlias bool) {
	edges := buildEdges(polygons)
	if len(edges) == 0 {
		return
	}

	yMin := edges[0].y0
	yMax := yMin
	for i := range edges {
		yMax = math32.Max(yMax, edges[i].y1)
	}
	rowMin := max(int(math32.Floor(yMin)), 0)
	rowMax := min(int(math32.Ceil(yMax)), r.height)
	if rowMin >= rowMax {
		return
	}

	rows := rowMax - rowMin
	if rows < parallelMinRows || len(edges) < parallelMinEdges {
		fillBand(mask, edges, rule, antiAlias, rowMin, rowMax)
	} else {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for y0 := rowMin; y0 < rowMax; y0 += bandRows {
			y1 := min(y0+bandRows, rowMax)
			g.Go(func() error {
				fillBand(mask, edges, rule, antiAlias, y0, y1)
				return nil
			})
		}
		_ = g.Wait()
	}
	mask.Bounds = mask.Bounds.Union(image.Rect(0, rowMin, r.width, rowMax))
}

// fillBand rasterizes rows [y0, y1). Bands write disjoint rows.
func fillBand(mask *Mask, edges []Edge, rule FillRule, antiAlias bool, y0, y1 int) {
	w := mask.Width
	aet := newActiveEdgeTable(edges)
	acc := make([]float32, w+1)

	samples := 1
	weight := float32(1)
	if antiAlias {
		samples = SubScanlines
		weight = 1 / float32(SubScanlines)
	}

	for y := y0; y < y1; y++ {
		clear(acc)
		touched := false
		for k := 0; k < samples; k++ {
			sy := float32(y) + (float32(k)+0.5)/float32(samples)
			xs := aet.crossings(sy)
			if len(xs) < 2 {
				continue
			}
			touched = true
			spans(xs, rule, func(xa, xb float32) {
				if antiAlias {
					accumulateSpan(acc, w, xa, xb, weight)
				} else {
					accumulateCenters(acc, w, xa, xb)
				}
			})
		}
		if !touched {
			continue
		}
		row := mask.Data[y*w : (y+1)*w]
		var run float32
		for x := 0; x < w; x++ {
			run += acc[x]
			v := run
			if v > 1 {
				v = 1
			} else if v < 1e-6 {
				v = 0
			}
			row[x] = v
		}
	}
}

// spans calls fn for every inside interval of a sorted crossing list.
func spans(xs []crossing, rule FillRule, fn func(xa, xb float32)) {
	var winding int32
	var start float32
	for _, c := range xs {
		inside := isInside(winding, rule)
		winding += c.dir
		now := isInside(winding, rule)
		switch {
		case !inside && now:
			start = c.x
		case inside && !now:
			if c.x > start {
				fn(start, c.x)
			}
		}
	}
}

func isInside(winding int32, rule FillRule) bool {
	if rule == FillRuleEvenOdd {
		return winding&1 != 0
	}
	return winding != 0
}

// accumulateSpan adds weight times the exact horizontal overlap of [xa, xb]
// with every pixel column. acc holds differences: the running sum over x is
// the coverage.
func accumulateSpan(acc []float32, w int, xa, xb, weight float32) {
	fw := float32(w)
	xa = math32.Max(xa, 0)
	xb = math32.Min(xb, fw)
	if xb <= xa {
		return
	}
	ia := int(xa)
	ib := int(xb)
	if ia == ib {
		addAt(acc, ia, (xb-xa)*weight)
		return
	}
	// partial left pixel
	addAt(acc, ia, (float32(ia+1)-xa)*weight)
	// full pixels (ia, ib)
	if ia+1 < ib {
		acc[ia+1] += weight
		acc[ib] -= weight
	}
	// partial right pixel
	if ib < w {
		addAt(acc, ib, (xb-float32(ib))*weight)
	}
}

// addAt adds v to a single column in difference form.
func addAt(acc []float32, x int, v float32) {
	acc[x] += v
	acc[x+1] -= v
}

// accumulateCenters marks pixels whose center lies in [xa, xb).
func accumulateCenters(acc []float32, w int, xa, xb float32) {
	ia := max(int(math32.Ceil(xa-0.5)), 0)
	ib := min(int(math32.Ceil(xb-0.5)), w)
	if ia >= ib {
		return
	}
	acc[ia]++
	acc[ib]--
}
