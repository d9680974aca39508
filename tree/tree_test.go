package tree

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-3

func rectSegments(x, y, w, h float32) []Segment {
	return []Segment{
		MoveTo(x, y),
		LineTo(x+w, y),
		LineTo(x+w, y+h),
		LineTo(x, y+h),
		Close(),
	}
}

func filledRect(id string, ts Transform, x, y, w, h float32) *Path {
	return NewPath(id, ts, rectSegments(x, y, w, h), WithFill(NewFill(Black, 1, FillRuleNonZero)))
}

func assertRect(t *testing.T, want, got Rect) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "X")
	assert.InDelta(t, want.Y, got.Y, eps, "Y")
	assert.InDelta(t, want.W, got.W, eps, "W")
	assert.InDelta(t, want.H, got.H, eps, "H")
}

func assertTransform(t *testing.T, want, got Transform) {
	t.Helper()
	assert.InDelta(t, want.A, got.A, eps, "A")
	assert.InDelta(t, want.B, got.B, eps, "B")
	assert.InDelta(t, want.C, got.C, eps, "C")
	assert.InDelta(t, want.D, got.D, eps, "D")
	assert.InDelta(t, want.E, got.E, eps, "E")
	assert.InDelta(t, want.F, got.F, eps, "F")
}

func TestAbsTransformComposition(t *testing.T) {
	leaf := filledRect("leaf", Scale(2, 2), 0, 0, 5, 5)
	inner := NewGroup("inner", Rotate(0.5), []Node{leaf})
	root := NewGroup("root", Translate(10, 20), []Node{inner})

	tr, err := New(Size{W: 100, H: 100}, root, Options{})
	require.NoError(t, err)

	assert.Equal(t, root.Transform(), root.AbsTransform())

	var check func(g *Group)
	check = func(g *Group) {
		for _, c := range g.Children() {
			assertTransform(t, Compose(g.AbsTransform(), c.Transform()), c.AbsTransform())
			if cg, ok := c.(*Group); ok {
				check(cg)
			}
		}
	}
	check(root)

	abs, ok := tr.NodeTransform("leaf")
	require.True(t, ok)
	assertTransform(t, leaf.AbsTransform(), abs)

	parent, ok := tr.ParentTransform("leaf")
	require.True(t, ok)
	assertTransform(t, inner.AbsTransform(), parent)
}

func TestStrokeBBoxContainsObjectBBox(t *testing.T) {
	p := NewPath("p", Identity(), rectSegments(10, 10, 10, 10),
		WithFill(NewFill(Black, 1, FillRuleNonZero)),
		WithStroke(NewStroke(Black, 1, 4)),
	)
	tr, err := New(Size{W: 50, H: 50}, NewGroup("", Identity(), []Node{p}), Options{})
	require.NoError(t, err)

	obj, ok := tr.NodeBBox("p")
	require.True(t, ok)
	assertRect(t, Rect{X: 10, Y: 10, W: 10, H: 10}, obj)

	strk, ok := tr.NodeStrokeBBox("p")
	require.True(t, ok)
	assertRect(t, Rect{X: 8, Y: 8, W: 14, H: 14}, strk)
	assert.True(t, strk.Contains(obj))
	assert.Less(t, strk.X, obj.X)
	assert.Greater(t, strk.Right(), obj.Right())
}

func TestStrokeBBoxOfHorizontalLine(t *testing.T) {
	p := NewPath("line", Identity(), []Segment{MoveTo(0, 5), LineTo(10, 5)},
		WithStroke(NewStroke(Black, 1, 2)))
	tr, err := New(Size{W: 20, H: 20}, NewGroup("", Identity(), []Node{p}), Options{})
	require.NoError(t, err)

	obj, ok := tr.NodeBBox("line")
	require.True(t, ok)
	assertRect(t, Rect{X: 0, Y: 5, W: 10, H: 0}, obj)

	strk, ok := tr.NodeStrokeBBox("line")
	require.True(t, ok)
	assertRect(t, Rect{X: 0, Y: 4, W: 10, H: 2}, strk)
}

func TestWholeTreeBBoxes(t *testing.T) {
	a := filledRect("a", Identity(), 0, 0, 10, 10)
	b := NewPath("b", Translate(50, 50), rectSegments(0, 0, 10, 10),
		WithStroke(NewStroke(Black, 1, 2, WithLineJoin(LineJoinBevel))))
	tr, err := New(Size{W: 20, H: 20}, NewGroup("", Identity(), []Node{a, b}), Options{})
	require.NoError(t, err)

	obj, ok := tr.ObjectBBox()
	require.True(t, ok)
	assertRect(t, Rect{X: 0, Y: 0, W: 60, H: 60}, obj)

	img, ok := tr.ImageBBox()
	require.True(t, ok)
	assertRect(t, Rect{X: 0, Y: 0, W: 61, H: 61}, img)
	assert.Equal(t, Size{W: 20, H: 20}, tr.Size())
}

func TestBBoxIgnoresUnpaintable(t *testing.T) {
	hidden := NewPath("hidden", Identity(), rectSegments(0, 0, 5, 5),
		WithFill(NewFill(Black, 1, FillRuleNonZero)), WithPathVisibility(false))
	bare := NewPath("bare", Identity(), rectSegments(0, 0, 5, 5))
	zeroStroke := NewPath("zero", Identity(), rectSegments(0, 0, 5, 5),
		WithStroke(NewStroke(Black, 1, 0)))
	g := NewGroup("g", Identity(), []Node{hidden, bare, zeroStroke})

	tr, err := New(Size{W: 10, H: 10}, NewGroup("", Identity(), []Node{g}), Options{})
	require.NoError(t, err)

	_, ok := tr.NodeBBox("g")
	assert.False(t, ok)
	_, ok = tr.ObjectBBox()
	assert.False(t, ok)
	_, ok = tr.ImageBBox()
	assert.False(t, ok)
	assert.False(t, tr.IsEmpty())
}

func TestImageAndTextBBox(t *testing.T) {
	img := NewRasterImage("img", Translate(5, 5), Size{W: 4, H: 2}, ImagePNG, image.NewRGBA(image.Rect(0, 0, 4, 2)))
	glyphs := NewGroup("", Identity(), []Node{filledRect("", Identity(), 1, 1, 3, 3)})
	txt := NewText("txt", Translate(20, 0), Rect{X: 0, Y: 0, W: 8, H: 5}, glyphs)

	tr, err := New(Size{W: 40, H: 40}, NewGroup("", Identity(), []Node{img, txt}), Options{})
	require.NoError(t, err)

	r, ok := tr.NodeBBox("img")
	require.True(t, ok)
	assertRect(t, Rect{X: 5, Y: 5, W: 4, H: 2}, r)

	r, ok = tr.NodeBBox("txt")
	require.True(t, ok)
	assertRect(t, Rect{X: 20, Y: 0, W: 8, H: 5}, r)

	assertTransform(t, Translate(20, 0), glyphs.AbsTransform())
	assert.Equal(t, ImageRenderingOptimizeQuality, img.Rendering())
}

func TestNodeLookupPolicy(t *testing.T) {
	clipContent := NewGroup("", Identity(), []Node{filledRect("clip-rect", Identity(), 0, 0, 5, 5)})
	clip := NewClipPath("clip", Identity(), clipContent, nil)
	grad := NewLinearGradient("grad", 0, 0, 1, 0, Identity(), SpreadPad,
		[]Stop{{Offset: 0, Color: Black}, {Offset: 1, Color: Color{R: 255, A: 255}}})
	shape := NewPath("shape", Identity(), rectSegments(0, 0, 5, 5),
		WithFill(NewFill(grad, 1, FillRuleNonZero)))
	root := NewGroup("", Identity(), []Node{NewGroup("clipped", Identity(), []Node{shape}, WithClipPath(clip))})

	tr, err := New(Size{W: 10, H: 10}, root, Options{})
	require.NoError(t, err)

	tests := []struct {
		id    string
		found bool
	}{
		{"shape", true},
		{"clipped", true},
		{"missing", false},
		{"", false},
		{"grad", false},
		{"clip", false},
		{"clip-rect", false},
		{string([]byte{0xff, 0xfe}), false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.found, tr.NodeExists(tt.id))
			_, ok := tr.NodeBBox(tt.id)
			assert.Equal(t, tt.found, ok)
			_, ok = tr.NodeStrokeBBox(tt.id)
			assert.Equal(t, tt.found, ok)
			_, ok = tr.NodeTransform(tt.id)
			assert.Equal(t, tt.found, ok)
		})
	}
	assert.Equal(t, 3, tr.Len())
}

func TestWalkPreOrder(t *testing.T) {
	a := filledRect("a", Identity(), 0, 0, 1, 1)
	b := filledRect("b", Identity(), 0, 0, 1, 1)
	g := NewGroup("g", Identity(), []Node{a})
	root := NewGroup("root", Identity(), []Node{g, b})

	tr, err := New(Size{W: 10, H: 10}, root, Options{})
	require.NoError(t, err)

	var ids []string
	tr.Walk(func(n Node) bool {
		ids = append(ids, n.ID())
		return true
	})
	assert.Equal(t, []string{"root", "g", "a", "b"}, ids)

	ids = ids[:0]
	tr.Walk(func(n Node) bool {
		ids = append(ids, n.ID())
		return len(ids) < 2
	})
	assert.Equal(t, []string{"root", "g"}, ids)
}

func TestNewErrors(t *testing.T) {
	goodStops := []Stop{{Offset: 0, Color: Black}}

	tests := []struct {
		name string
		size Size
		root func() *Group
		opts Options
		want error
	}{
		{
			name: "zero size",
			size: Size{W: 0, H: 10},
			root: func() *Group { return nil },
			want: ErrInvalidSize,
		},
		{
			name: "path without move",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				return NewGroup("", Identity(), []Node{NewPath("", Identity(), []Segment{LineTo(1, 1)})})
			},
			want: ErrInvalidPath,
		},
		{
			name: "gradient without stops",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				g := NewLinearGradient("g", 0, 0, 1, 0, Identity(), SpreadPad, nil)
				return NewGroup("", Identity(), []Node{
					NewPath("", Identity(), rectSegments(0, 0, 1, 1), WithFill(NewFill(g, 1, FillRuleNonZero))),
				})
			},
			want: ErrInvalidGradient,
		},
		{
			name: "decreasing stops",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				g := NewRadialGradient("g", 0, 0, 1, 0, 0, Identity(), SpreadPad,
					[]Stop{{Offset: 0.6, Color: Black}, {Offset: 0.2, Color: Black}})
				return NewGroup("", Identity(), []Node{
					NewPath("", Identity(), rectSegments(0, 0, 1, 1),
						WithStroke(NewStroke(g, 1, 1))),
				})
			},
			want: ErrInvalidGradient,
		},
		{
			name: "duplicate id",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				return NewGroup("", Identity(), []Node{
					filledRect("x", Identity(), 0, 0, 1, 1),
					filledRect("x", Identity(), 0, 0, 1, 1),
				})
			},
			want: ErrDuplicateID,
		},
		{
			name: "shared node",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				p := filledRect("", Identity(), 0, 0, 1, 1)
				return NewGroup("", Identity(), []Node{p, p})
			},
			want: ErrNodeShared,
		},
		{
			name: "elements limit",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				kids := make([]Node, 4)
				for i := range kids {
					kids[i] = filledRect("", Identity(), 0, 0, 1, 1)
				}
				return NewGroup("", Identity(), kids)
			},
			opts: Options{ElementsLimit: 4},
			want: ErrElementsLimitReached,
		},
		{
			name: "limit counts clip content",
			size: Size{W: 10, H: 10},
			root: func() *Group {
				content := NewGroup("", Identity(), []Node{filledRect("", Identity(), 0, 0, 1, 1)})
				clip := NewClipPath("c", Identity(), content, nil)
				return NewGroup("", Identity(), []Node{
					NewGroup("", Identity(), []Node{filledRect("", Identity(), 0, 0, 1, 1)}, WithClipPath(clip)),
				})
			},
			opts: Options{ElementsLimit: 4},
			want: ErrElementsLimitReached,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.root(), tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := New(Size{W: 1, H: 1}, NewGroup("", Identity(), []Node{
		NewPath("", Identity(), rectSegments(0, 0, 1, 1),
			WithFill(NewFill(NewLinearGradient("", 0, 0, 1, 0, Identity(), SpreadPad, goodStops), 1, FillRuleNonZero))),
	}), Options{})
	assert.NoError(t, err)
}

func TestNewCopiesCallerSlices(t *testing.T) {
	segs := rectSegments(0, 0, 10, 10)
	stops := []Stop{{Offset: 0, Color: Black}}
	dash := []float32{2, 1}
	grad := NewLinearGradient("g", 0, 0, 1, 0, Identity(), SpreadPad, stops)
	a := NewPath("a", Identity(), segs,
		WithFill(NewFill(grad, 1, FillRuleNonZero)),
		WithStroke(NewStroke(Black, 1, WithDash(dash, 0))))
	b := filledRect("b", Identity(), 50, 50, 5, 5)
	children := []Node{a}

	tr, err := New(Size{W: 100, H: 100}, NewGroup("", Identity(), children), Options{})
	require.NoError(t, err)

	children[0] = b
	segs[2] = LineTo(90, 90)
	stops[0].Color = Color{R: 255, A: 255}
	dash[0] = 7

	assert.Equal(t, "a", tr.Root().Child(0).ID())
	assert.False(t, tr.NodeExists("b"))
	assert.Equal(t, LineTo(10, 10), a.Segments()[2])
	assert.Equal(t, Black, grad.Stops()[0].Color)
	got, _ := a.Stroke().Dash()
	assert.Equal(t, []float32{2, 1}, got)

	bbox, ok := tr.ObjectBBox()
	require.True(t, ok)
	assertRect(t, Rect{W: 10, H: 10}, bbox)
}

func TestNodeCannotJoinTwoTrees(t *testing.T) {
	p := filledRect("p", Identity(), 0, 0, 1, 1)
	_, err := New(Size{W: 1, H: 1}, NewGroup("", Identity(), []Node{p}), Options{})
	require.NoError(t, err)

	_, err = New(Size{W: 1, H: 1}, NewGroup("", Identity(), []Node{p}), Options{})
	assert.ErrorIs(t, err, ErrNodeShared)
}

func TestSharedDefinitions(t *testing.T) {
	content := NewGroup("", Identity(), []Node{filledRect("", Identity(), 0, 0, 5, 5)})
	mask := NewMask("m", Rect{W: 10, H: 10}, MaskLuminance, content, nil)
	root := NewGroup("", Identity(), []Node{
		NewGroup("a", Identity(), []Node{filledRect("", Identity(), 0, 0, 1, 1)}, WithMask(mask)),
		NewGroup("b", Identity(), []Node{filledRect("", Identity(), 0, 0, 1, 1)}, WithMask(mask)),
	})
	_, err := New(Size{W: 10, H: 10}, root, Options{})
	assert.NoError(t, err)
}

func TestRenderingDefaults(t *testing.T) {
	p := filledRect("p", Identity(), 0, 0, 1, 1)
	crisp := NewPath("crisp", Identity(), rectSegments(0, 0, 1, 1), WithShapeRendering(ShapeRenderingGeometricPrecision))
	_, err := New(Size{W: 1, H: 1}, NewGroup("", Identity(), []Node{p, crisp}),
		Options{ShapeRendering: ShapeRenderingCrispEdges})
	require.NoError(t, err)

	assert.False(t, p.AntiAlias())
	assert.True(t, crisp.AntiAlias())
}

func TestEmptyTree(t *testing.T) {
	tr, err := New(Size{W: 10, H: 10}, nil, Options{})
	require.NoError(t, err)
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 1, tr.Len())
}

func TestViewBoxTransform(t *testing.T) {
	tr, err := New(Size{W: 100, H: 50}, nil, Options{ViewBox: Rect{X: 10, Y: 10, W: 20, H: 20}})
	require.NoError(t, err)

	m := tr.ViewBoxTransform()
	x, y := m.Apply(10, 10)
	assert.InDelta(t, 25, x, eps)
	assert.InDelta(t, 0, y, eps)
	x, y = m.Apply(30, 30)
	assert.InDelta(t, 75, x, eps)
	assert.InDelta(t, 50, y, eps)

	tr, err = New(Size{W: 10, H: 10}, nil, Options{})
	require.NoError(t, err)
	assert.True(t, tr.ViewBoxTransform().IsIdentity())
}
