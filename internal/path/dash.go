package path

import (
	"math"

	"github.com/gogpu/rtree/internal/geom"
)

// NormalizeDash validates a dash array. An odd-length array is repeated to
// make it even. The second result is false when dashing must be disabled:
// empty array, a negative or non-finite value, or a zero total length.
func NormalizeDash(array []float32) ([]float32, bool) {
	if len(array) == 0 {
		return nil, false
	}
	var sum float32
	for _, v := range array {
		if v < 0 || !finite(v) {
			return nil, false
		}
		sum += v
	}
	if sum <= 0 {
		return nil, false
	}
	out := make([]float32, 0, len(array)*2)
	out = append(out, array...)
	if len(array)%2 == 1 {
		out = append(out, array...)
	}
	return out, true
}

// MaxDashes bounds the number of dashes a single Dash call may produce.
// Longer dash sequences disable dashing.
const MaxDashes = 1_000_000

// Dash splits every polyline into its dash-on pieces. The pattern restarts
// at offset for every subpath. A negative offset wraps around the pattern.
// When the array disables dashing, or the lines would need more than
// MaxDashes dashes, the input is returned unchanged.
func Dash(lines []Polyline, array []float32, offset float32) []Polyline {
	pattern, ok := NormalizeDash(array)
	if !ok {
		return lines
	}
	ends := make([]float64, len(pattern))
	var total float64
	for i, v := range pattern {
		total += float64(v)
		ends[i] = total
	}
	if !finite(offset) {
		offset = 0
	}
	off := math.Mod(float64(offset), total)
	if off < 0 {
		off += total
	}
	if off >= total {
		off = 0
	}

	var length float64
	for _, pl := range lines {
		length += polylineLength(pl)
	}
	if length/total*float64(len(pattern)) > MaxDashes {
		return lines
	}

	var out []Polyline
	for _, pl := range lines {
		out = dashOne(out, pl, ends, off)
	}
	return out
}

func polylineLength(pl Polyline) float64 {
	pts := pl.Points
	var l float64
	for i := 1; i < len(pts); i++ {
		l += segmentLength(pts[i-1], pts[i])
	}
	if pl.Closed && len(pts) > 1 {
		l += segmentLength(pts[len(pts)-1], pts[0])
	}
	return l
}

func segmentLength(a, b geom.Point) float64 {
	return math.Hypot(float64(b.X)-float64(a.X), float64(b.Y)-float64(a.Y))
}

// dashOne walks pl with the pattern given as cumulative interval ends.
// Interval boundaries are derived from the cycle and interval index so
// they never drift with the number of dashes already emitted.
func dashOne(out []Polyline, pl Polyline, ends []float64, offset float64) []Polyline {
	pts := pl.Points
	if pl.Closed && len(pts) > 1 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	if len(pts) < 2 {
		return out
	}
	total := ends[len(ends)-1]

	idx := 0
	for ends[idx] <= offset {
		idx++
	}
	cycle := 0
	boundary := func() float64 {
		return float64(cycle)*total + ends[idx] - offset
	}

	on := idx%2 == 0
	var cur []geom.Point
	if on {
		cur = append(cur, pts[0])
	}
	emit := func() {
		if len(cur) > 1 {
			out = append(out, Polyline{Points: cur})
		}
		cur = nil
	}

	var start float64
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := segmentLength(a, b)
		end := start + segLen
		for d := boundary(); d < end; d = boundary() {
			p := a.Lerp(b, float32((d-start)/segLen))
			if on {
				cur = append(cur, p)
				emit()
			} else {
				cur = append(cur[:0], p)
			}
			on = !on
			if idx++; idx == len(ends) {
				idx = 0
				cycle++
			}
		}
		start = end
		if on {
			cur = append(cur, b)
		}
	}
	if on {
		emit()
	}
	return out
}
