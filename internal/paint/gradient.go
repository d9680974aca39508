package paint

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/rtree/internal/color"
	"github.com/gogpu/rtree/internal/geom"
)

// focalClamp is the fraction of the radius a focal point may reach.
const focalClamp = 0.99

// gradient holds what linear and radial shaders share.
type gradient struct {
	stops   []ColorStop
	spread  Spread
	opacity float32
	inv     geom.Transform // device to gradient space
}

func (g *gradient) colorAt(t float32) color.ColorF32 {
	c := colorAtOffset(g.stops, applySpread(t, g.spread))
	return c.Premultiply().Scale(g.opacity)
}

// lastStop returns the degenerate-gradient color.
func lastStop(stops []ColorStop, opacity float32) Solid {
	return NewSolid(stops[len(stops)-1].Color, opacity)
}

// LinearGradient shades along the axis (x1, y1) -> (x2, y2).
type LinearGradient struct {
	gradient
	x1, y1 float32
	dx, dy float32 // axis divided by its squared length
}

// NewLinear returns a linear gradient shader. ts maps gradient space to
// device space. Stops must satisfy ValidStops. A zero-length axis or a
// singular transform yields the last stop color.
func NewLinear(x1, y1, x2, y2 float32, stops []ColorStop, spread Spread, ts geom.Transform, opacity float32) Shader {
	inv, ok := ts.Invert()
	dx, dy := x2-x1, y2-y1
	l2 := dx*dx + dy*dy
	if !ok || !(l2 > 0) {
		return lastStop(stops, opacity)
	}
	return &LinearGradient{
		gradient: gradient{stops: stops, spread: spread, opacity: opacity, inv: inv},
		x1:       x1,
		y1:       y1,
		dx:       dx / l2,
		dy:       dy / l2,
	}
}

// At implements Shader.
func (g *LinearGradient) At(x, y float32) color.ColorF32 {
	px, py := g.inv.Apply(x, y)
	t := (px-g.x1)*g.dx + (py-g.y1)*g.dy
	return g.colorAt(t)
}

// RadialGradient is a two-point conical gradient from the focal point
// (radius 0) to the circle (cx, cy, r).
type RadialGradient struct {
	gradient
	fx, fy float32
	ex, ey float32 // center - focus
	a      float32 // |e|^2 - r^2, negative
	r      float32
}

// NewRadial returns a radial gradient shader. ts maps gradient space to
// device space. A focal point outside the circle is moved onto
// 0.99*r from the center along the same direction. Zero radius or a
// singular transform yields the last stop color.
func NewRadial(cx, cy, r, fx, fy float32, stops []ColorStop, spread Spread, ts geom.Transform, opacity float32) Shader {
	inv, ok := ts.Invert()
	if !ok || !(r > 0) {
		return lastStop(stops, opacity)
	}
	fx, fy = ClampFocus(cx, cy, r, fx, fy)
	ex, ey := cx-fx, cy-fy
	return &RadialGradient{
		gradient: gradient{stops: stops, spread: spread, opacity: opacity, inv: inv},
		fx:       fx,
		fy:       fy,
		ex:       ex,
		ey:       ey,
		a:        ex*ex + ey*ey - r*r,
		r:        r,
	}
}

// ClampFocus moves a focal point that lies outside 0.99*r of the center
// onto that circle.
func ClampFocus(cx, cy, r, fx, fy float32) (float32, float32) {
	dx, dy := fx-cx, fy-cy
	d := math32.Hypot(dx, dy)
	lim := r * focalClamp
	if d <= lim {
		return fx, fy
	}
	s := lim / d
	return cx + dx*s, cy + dy*s
}

// At implements Shader.
func (g *RadialGradient) At(x, y float32) color.ColorF32 {
	px, py := g.inv.Apply(x, y)
	dx, dy := px-g.fx, py-g.fy

	// |d - t*e| = t*r  =>  a t^2 - 2 (d.e) t + d.d = 0, a < 0
	de := dx*g.ex + dy*g.ey
	dd := dx*dx + dy*dy
	disc := de*de - g.a*dd
	t := (de - math32.Sqrt(math32.Max(disc, 0))) / g.a
	return g.colorAt(t)
}
