package tree

import (
	"slices"

	"github.com/gogpu/rtree/internal/color"
	"github.com/gogpu/rtree/internal/paint"
	"github.com/gogpu/rtree/internal/raster"
	"github.com/gogpu/rtree/internal/stroke"
)

// Paint is one of Color, *LinearGradient, *RadialGradient or *Pattern.
type Paint interface {
	isPaint()
}

// Color is a straight (non-premultiplied) 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

func (Color) isPaint() {}

// Black is opaque black.
var Black = Color{A: 255}

// F32 returns the color as straight float32 components.
func (c Color) F32() color.ColorF32 {
	return color.U8ToF32(color.ColorU8(c))
}

// SpreadMethod defines how a gradient extends beyond its end points.
type SpreadMethod = paint.Spread

// Spread methods.
const (
	SpreadPad     = paint.SpreadPad
	SpreadReflect = paint.SpreadReflect
	SpreadRepeat  = paint.SpreadRepeat
)

// Stop is a gradient stop.
type Stop struct {
	Offset float32
	Color  Color
}

// BaseGradient holds the properties shared by linear and radial gradients.
type BaseGradient struct {
	id        string
	transform Transform
	spread    SpreadMethod
	stops     []Stop
}

// ID returns the gradient identifier.
func (g *BaseGradient) ID() string { return g.id }

// Transform returns the gradient transform.
func (g *BaseGradient) Transform() Transform { return g.transform }

// Spread returns the spread method.
func (g *BaseGradient) Spread() SpreadMethod { return g.spread }

// Stops returns the gradient stops. The slice must not be modified.
func (g *BaseGradient) Stops() []Stop { return g.stops }

// ColorStops converts the stops for shading.
func (g *BaseGradient) ColorStops() []paint.ColorStop {
	out := make([]paint.ColorStop, len(g.stops))
	for i, s := range g.stops {
		out[i] = paint.ColorStop{Offset: s.Offset, Color: s.Color.F32()}
	}
	return out
}

func (g *BaseGradient) valid() bool {
	return g.transform.IsFinite() && paint.ValidStops(g.ColorStops())
}

// LinearGradient is a gradient along the line (x1, y1) -> (x2, y2).
type LinearGradient struct {
	BaseGradient
	x1, y1, x2, y2 float32
}

func (*LinearGradient) isPaint() {}

// NewLinearGradient creates a linear gradient.
func NewLinearGradient(id string, x1, y1, x2, y2 float32, ts Transform, spread SpreadMethod, stops []Stop) *LinearGradient {
	return &LinearGradient{
		BaseGradient: BaseGradient{id: id, transform: ts, spread: spread, stops: slices.Clone(stops)},
		x1:           x1,
		y1:           y1,
		x2:           x2,
		y2:           y2,
	}
}

// Points returns the gradient vector.
func (g *LinearGradient) Points() (x1, y1, x2, y2 float32) {
	return g.x1, g.y1, g.x2, g.y2
}

// RadialGradient is a gradient from the focal point (fx, fy) to the circle
// (cx, cy, r).
type RadialGradient struct {
	BaseGradient
	cx, cy, r, fx, fy float32
}

func (*RadialGradient) isPaint() {}

// NewRadialGradient creates a radial gradient.
func NewRadialGradient(id string, cx, cy, r, fx, fy float32, ts Transform, spread SpreadMethod, stops []Stop) *RadialGradient {
	return &RadialGradient{
		BaseGradient: BaseGradient{id: id, transform: ts, spread: spread, stops: slices.Clone(stops)},
		cx:           cx,
		cy:           cy,
		r:            r,
		fx:           fx,
		fy:           fy,
	}
}

// Circle returns the end circle.
func (g *RadialGradient) Circle() (cx, cy, r float32) {
	return g.cx, g.cy, g.r
}

// Focus returns the focal point.
func (g *RadialGradient) Focus() (fx, fy float32) {
	return g.fx, g.fy
}

// Pattern tiles the content of root over rect, in user space mapped by
// transform.
type Pattern struct {
	id        string
	rect      Rect
	transform Transform
	root      *Group
}

func (*Pattern) isPaint() {}

// NewPattern creates a pattern.
func NewPattern(id string, rect Rect, ts Transform, root *Group) *Pattern {
	return &Pattern{id: id, rect: rect, transform: ts, root: root}
}

// ID returns the pattern identifier.
func (p *Pattern) ID() string { return p.id }

// Rect returns the tile rectangle.
func (p *Pattern) Rect() Rect { return p.rect }

// Transform returns the pattern transform.
func (p *Pattern) Transform() Transform { return p.transform }

// Root returns the tile content.
func (p *Pattern) Root() *Group { return p.root }

// FillRule specifies how to determine which areas are inside a path.
type FillRule = raster.FillRule

// Fill rules.
const (
	FillRuleNonZero = raster.FillRuleNonZero
	FillRuleEvenOdd = raster.FillRuleEvenOdd
)

// Fill is a path fill.
type Fill struct {
	paint   Paint
	opacity float32
	rule    FillRule
}

// NewFill creates a fill. Opacity is clamped to [0, 1].
func NewFill(p Paint, opacity float32, rule FillRule) *Fill {
	return &Fill{paint: p, opacity: clampOpacity(opacity), rule: rule}
}

// Paint returns the fill paint.
func (f *Fill) Paint() Paint { return f.paint }

// Opacity returns the fill opacity.
func (f *Fill) Opacity() float32 { return f.opacity }

// Rule returns the fill rule.
func (f *Fill) Rule() FillRule { return f.rule }

// LineCap specifies the shape of open stroke ends.
type LineCap = stroke.LineCap

// LineJoin specifies the shape of stroke corners.
type LineJoin = stroke.LineJoin

// Caps and joins.
const (
	LineCapButt   = stroke.LineCapButt
	LineCapRound  = stroke.LineCapRound
	LineCapSquare = stroke.LineCapSquare

	LineJoinMiter     = stroke.LineJoinMiter
	LineJoinMiterClip = stroke.LineJoinMiterClip
	LineJoinRound     = stroke.LineJoinRound
	LineJoinBevel     = stroke.LineJoinBevel
)

// Stroke is a path stroke.
type Stroke struct {
	paint      Paint
	opacity    float32
	width      float32
	cap        LineCap
	join       LineJoin
	miterLimit float32
	dash       []float32
	dashOffset float32
}

// StrokeOption configures a Stroke.
type StrokeOption func(*Stroke)

// WithLineCap sets the line cap. The default is butt.
func WithLineCap(c LineCap) StrokeOption {
	return func(s *Stroke) { s.cap = c }
}

// WithLineJoin sets the line join. The default is miter.
func WithLineJoin(j LineJoin) StrokeOption {
	return func(s *Stroke) { s.join = j }
}

// WithMiterLimit sets the miter limit. Values below 1 are raised to 1.
// The default is 4.
func WithMiterLimit(limit float32) StrokeOption {
	return func(s *Stroke) { s.miterLimit = max(limit, 1) }
}

// WithDash sets the dash array and offset. An empty array is solid. The
// array is copied.
func WithDash(array []float32, offset float32) StrokeOption {
	return func(s *Stroke) {
		s.dash = slices.Clone(array)
		s.dashOffset = offset
	}
}

// NewStroke creates a stroke. Opacity is clamped to [0, 1]. A width that is
// not positive produces no stroke when rendered.
func NewStroke(p Paint, opacity, width float32, opts ...StrokeOption) *Stroke {
	s := &Stroke{
		paint:      p,
		opacity:    clampOpacity(opacity),
		width:      width,
		cap:        LineCapButt,
		join:       LineJoinMiter,
		miterLimit: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paint returns the stroke paint.
func (s *Stroke) Paint() Paint { return s.paint }

// Opacity returns the stroke opacity.
func (s *Stroke) Opacity() float32 { return s.opacity }

// Width returns the stroke width.
func (s *Stroke) Width() float32 { return s.width }

// LineCap returns the line cap.
func (s *Stroke) LineCap() LineCap { return s.cap }

// LineJoin returns the line join.
func (s *Stroke) LineJoin() LineJoin { return s.join }

// MiterLimit returns the miter limit.
func (s *Stroke) MiterLimit() float32 { return s.miterLimit }

// Dash returns the dash array and offset.
func (s *Stroke) Dash() ([]float32, float32) { return s.dash, s.dashOffset }

// Style returns the pen for stroke expansion.
func (s *Stroke) Style() stroke.Stroke {
	return stroke.Stroke{Width: s.width, Cap: s.cap, Join: s.join, MiterLimit: s.miterLimit}
}

// DashPattern returns the dash pattern for stroke expansion.
func (s *Stroke) DashPattern() stroke.Dash {
	return stroke.Dash{Array: s.dash, Offset: s.dashOffset}
}

func clampOpacity(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	return min(v, 1)
}
