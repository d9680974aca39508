package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rtree/internal/geom"
)

func rect(x0, y0, x1, y1 float32) []geom.Point {
	return []geom.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestNewEdge(t *testing.T) {
	e, ok := NewEdge(geom.Pt(0, 10), geom.Pt(10, 0))
	require.True(t, ok)
	assert.Equal(t, int32(-1), e.dir)
	assert.Equal(t, float32(0), e.y0)
	assert.InDelta(t, 5, e.XAtY(5), 1e-6)

	_, ok = NewEdge(geom.Pt(0, 1), geom.Pt(5, 1))
	assert.False(t, ok, "horizontal edges are dropped")
}

func TestFillTriangle(t *testing.T) {
	m := NewMask(10, 10)
	r := NewRasterizer(10, 10)
	tri := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	r.Fill(m, [][]geom.Point{tri}, FillRuleNonZero, true)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := m.At(x, y)
			switch {
			case x > y:
				assert.Equal(t, float32(1), v, "inside pixel (%d,%d)", x, y)
			case x < y:
				assert.Equal(t, float32(0), v, "outside pixel (%d,%d)", x, y)
			default:
				assert.InDelta(t, 0.5, v, 1e-5, "diagonal pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestFillFractionalRect(t *testing.T) {
	m := NewMask(4, 4)
	NewRasterizer(4, 4).Fill(m, [][]geom.Point{rect(0.5, 0, 2.25, 4)}, FillRuleNonZero, true)

	assert.InDelta(t, 0.5, m.At(0, 1), 1e-6)
	assert.InDelta(t, 1, m.At(1, 1), 1e-6)
	assert.InDelta(t, 0.25, m.At(2, 1), 1e-6)
	assert.InDelta(t, 0, m.At(3, 1), 1e-6)
}

func TestFillRules(t *testing.T) {
	// outer and inner squares with the same orientation
	outer := rect(0, 0, 8, 8)
	inner := rect(2, 2, 6, 6)

	tests := []struct {
		name   string
		rule   FillRule
		center float32
	}{
		{"nonzero fills the hole", FillRuleNonZero, 1},
		{"evenodd leaves the hole", FillRuleEvenOdd, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMask(8, 8)
			NewRasterizer(8, 8).Fill(m, [][]geom.Point{outer, inner}, tt.rule, true)
			assert.Equal(t, tt.center, m.At(4, 4))
			assert.Equal(t, float32(1), m.At(1, 1))
		})
	}
}

func TestFillOppositeWindingCancels(t *testing.T) {
	cw := rect(0, 0, 4, 4)
	ccw := []geom.Point{cw[3], cw[2], cw[1], cw[0]}
	m := NewMask(4, 4)
	NewRasterizer(4, 4).Fill(m, [][]geom.Point{cw, ccw}, FillRuleNonZero, true)
	assert.Equal(t, float32(0), m.At(2, 2))
}

func TestFillCrisp(t *testing.T) {
	m := NewMask(4, 4)
	NewRasterizer(4, 4).Fill(m, [][]geom.Point{rect(0.4, 0.4, 2.6, 2.4)}, FillRuleNonZero, false)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := m.At(x, y)
			assert.True(t, v == 0 || v == 1, "crisp coverage must be binary")
		}
	}
	assert.Equal(t, float32(1), m.At(0, 0))
	assert.Equal(t, float32(1), m.At(2, 1))
	assert.Equal(t, float32(0), m.At(0, 2))
	assert.Equal(t, float32(0), m.At(3, 0))
}

func TestFillClipsToCanvas(t *testing.T) {
	m := NewMask(4, 4)
	NewRasterizer(4, 4).Fill(m, [][]geom.Point{rect(-10, -10, 20, 20)}, FillRuleNonZero, true)
	for _, v := range m.Data {
		assert.Equal(t, float32(1), v)
	}
}

func TestFillParallelMatchesSerial(t *testing.T) {
	const size = 400
	// a many-sided star crossing many bands
	var star []geom.Point
	for i := 0; i < 101; i++ {
		j := (i * 37) % 101
		star = append(star, geom.Pt(
			200+190*cosTable(j, 101),
			200+190*sinTable(j, 101),
		))
	}

	par := NewMask(size, size)
	NewRasterizer(size, size).Fill(par, [][]geom.Point{star}, FillRuleEvenOdd, true)

	ser := NewMask(size, size)
	edges := buildEdges([][]geom.Point{star})
	fillBand(ser, edges, FillRuleEvenOdd, true, 0, size)

	assert.Equal(t, ser.Data, par.Data)
}

func TestMaskResetAndMultiply(t *testing.T) {
	a := NewMask(4, 4)
	NewRasterizer(4, 4).Fill(a, [][]geom.Point{rect(0, 0, 2, 4)}, FillRuleNonZero, true)
	b := NewMask(4, 4)
	NewRasterizer(4, 4).Fill(b, [][]geom.Point{rect(1, 0, 4, 4)}, FillRuleNonZero, true)

	a.Multiply(b)
	assert.Equal(t, float32(0), a.At(0, 0))
	assert.Equal(t, float32(1), a.At(1, 0))
	assert.Equal(t, float32(0), a.At(2, 0))

	a.Reset()
	for _, v := range a.Data {
		assert.Equal(t, float32(0), v)
	}
}
