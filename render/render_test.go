// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"errors"
	"image"
	stdcolor "image/color"
	"sync"
	"testing"

	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/tree"
)

func TestTriangleCoverage(t *testing.T) {
	tri := tree.NewPath("tri", tree.Identity(), []tree.Segment{
		tree.MoveTo(0, 0),
		tree.LineTo(10, 0),
		tree.LineTo(10, 10),
		tree.Close(),
	}, tree.WithFill(tree.NewFill(tree.Black, 1, tree.FillRuleNonZero)))
	pm := mustRender(t, mustTree(t, 10, 10, tri), 10, 10)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			switch {
			case x > y:
				expectPixel(t, pm, x, y, rgba{0, 0, 0, 255})
			case x < y:
				expectPixel(t, pm, x, y, rgba{})
			default:
				expectPixel(t, pm, x, y, rgba{0, 0, 0, 128})
			}
		}
	}
}

func TestGroupOpacity(t *testing.T) {
	g := tree.NewGroup("g", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, red)}, tree.WithOpacity(0.5))
	pm := mustRender(t, mustTree(t, 8, 8, g), 8, 8)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			expectPixel(t, pm, x, y, rgba{128, 0, 0, 128})
		}
	}
}

func TestFillOpacityMatchesGroupOpacity(t *testing.T) {
	p := tree.NewPath("", tree.Identity(), []tree.Segment{
		tree.MoveTo(0, 0), tree.LineTo(4, 0), tree.LineTo(4, 4), tree.LineTo(0, 4), tree.Close(),
	}, tree.WithFill(tree.NewFill(red, 0.5, tree.FillRuleNonZero)))
	pm := mustRender(t, mustTree(t, 4, 4, p), 4, 4)
	expectPixel(t, pm, 2, 2, rgba{128, 0, 0, 128})
}

func TestRenderDeterministic(t *testing.T) {
	tr := sampleTree(t)
	a := mustRender(t, tr, 64, 64)
	b := mustRender(t, tr, 64, 64)
	if !bytes.Equal(a.Pixels(), b.Pixels()) {
		t.Fatal("two renders of the same tree differ")
	}
}

func TestConcurrentRendersMatchSequential(t *testing.T) {
	tr := sampleTree(t)
	want := mustRender(t, tr, 64, 64).Pixels()

	const n = 8
	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pm := NewPixmap(64, 64)
			errs[i] = Render(tr, tree.Identity(), pm)
			results[i] = pm.Pixels()
		}()
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("render %d: %v", i, errs[i])
		}
		if !bytes.Equal(want, results[i]) {
			t.Errorf("render %d differs from the sequential result", i)
		}
	}
}

// sampleTree exercises gradients, strokes, clips, masks and blending.
func sampleTree(t *testing.T) *tree.Tree {
	t.Helper()
	grad := tree.NewLinearGradient("", 0, 0, 64, 0, tree.Identity(), tree.SpreadReflect, []tree.Stop{
		{Offset: 0, Color: red},
		{Offset: 1, Color: tree.Color{B: 255, A: 128}},
	})
	circle := tree.NewPath("circle", tree.Identity(), []tree.Segment{
		tree.MoveTo(32, 8),
		tree.CubicTo(45, 8, 56, 19, 56, 32),
		tree.CubicTo(56, 45, 45, 56, 32, 56),
		tree.CubicTo(19, 56, 8, 45, 8, 32),
		tree.CubicTo(8, 19, 19, 8, 32, 8),
		tree.Close(),
	},
		tree.WithFill(tree.NewFill(grad, 1, tree.FillRuleNonZero)),
		tree.WithStroke(tree.NewStroke(green, 0.75, 3, tree.WithLineJoin(tree.LineJoinRound), tree.WithDash([]float32{6, 2}, 1))),
	)
	clip := tree.NewClipPath("", tree.Identity(),
		tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 48, 64, tree.Black)}), nil)
	mask := tree.NewMask("", tree.Rect{W: 64, H: 64}, tree.MaskLuminance,
		tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 16, 64, 40, white)}), nil)
	g := tree.NewGroup("g", tree.Rotate(0.1), []tree.Node{circle},
		tree.WithClipPath(clip), tree.WithMask(mask), tree.WithBlendMode(tree.BlendMultiply))
	return mustTree(t, 64, 64, rectPath("bg", 0, 0, 64, 64, tree.Color{R: 200, G: 200, B: 50, A: 255}), g)
}

func TestRenderErrors(t *testing.T) {
	tr := mustTree(t, 10, 10, rectPath("r", 0, 0, 5, 5, red),
		tree.NewPath("flat", tree.Identity(), []tree.Segment{tree.MoveTo(0, 0), tree.LineTo(5, 0)},
			tree.WithFill(tree.NewFill(red, 1, tree.FillRuleNonZero))))

	if _, err := NewPixmapFromBytes(10, 10, make([]byte, 399)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("NewPixmapFromBytes(short) error = %v, want ErrInvalidTarget", err)
	}
	if _, err := NewPixmapFromBytes(0, 10, nil); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("NewPixmapFromBytes(0 width) error = %v, want ErrInvalidTarget", err)
	}
	if err := Render(tr, tree.Identity(), NewPixmap(0, 0)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Render(zero pixmap) error = %v, want ErrInvalidTarget", err)
	}

	empty, err := tree.New(tree.Size{W: 10, H: 10}, nil, tree.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Render(empty, tree.Identity(), NewPixmap(10, 10)); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("Render(empty) error = %v, want ErrEmptyTree", err)
	}

	pix := bytes.Repeat([]byte{7}, 400)
	pm, err := NewPixmapFromBytes(10, 10, pix)
	if err != nil {
		t.Fatal(err)
	}
	if err := RenderNode(tr, "missing", tree.Identity(), pm); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("RenderNode(missing) error = %v, want ErrNodeNotFound", err)
	}
	if err := RenderNode(tr, "flat", tree.Identity(), pm); !errors.Is(err, ErrZeroBBox) {
		t.Errorf("RenderNode(flat) error = %v, want ErrZeroBBox", err)
	}
	for i, b := range pix {
		if b != 7 {
			t.Fatalf("failed render wrote byte %d", i)
		}
	}
}

func TestRenderNodeUsesCanvasPosition(t *testing.T) {
	inner := tree.NewPath("box", tree.Translate(2, 3), []tree.Segment{
		tree.MoveTo(0, 0), tree.LineTo(2, 0), tree.LineTo(2, 2), tree.LineTo(0, 2), tree.Close(),
	}, tree.WithFill(tree.NewFill(red, 1, tree.FillRuleNonZero)))
	g := tree.NewGroup("g", tree.Translate(4, 0), []tree.Node{inner})
	tr := mustTree(t, 16, 16, rectPath("bg", 0, 0, 16, 16, green), g)

	pm := NewPixmap(16, 16)
	if err := RenderNode(tr, "box", tree.Identity(), pm); err != nil {
		t.Fatal(err)
	}
	expectPixel(t, pm, 6, 3, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 7, 4, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 5, 3, rgba{})
	expectPixel(t, pm, 0, 0, rgba{})
}

func TestRenderClipsToDocument(t *testing.T) {
	tr := mustTree(t, 4, 4, rectPath("", 0, 0, 8, 8, red))
	pm := mustRender(t, tr, 8, 8)
	expectPixel(t, pm, 3, 3, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 4, 4, rgba{})
	expectPixel(t, pm, 6, 1, rgba{})
}

func TestStroke(t *testing.T) {
	line := tree.NewPath("", tree.Identity(), []tree.Segment{tree.MoveTo(0, 5), tree.LineTo(10, 5)},
		tree.WithStroke(tree.NewStroke(tree.Black, 1, 2)))
	pm := mustRender(t, mustTree(t, 10, 10, line), 10, 10)
	for x := 0; x < 10; x++ {
		expectPixel(t, pm, x, 3, rgba{})
		expectPixel(t, pm, x, 4, rgba{0, 0, 0, 255})
		expectPixel(t, pm, x, 5, rgba{0, 0, 0, 255})
		expectPixel(t, pm, x, 6, rgba{})
	}
}

func TestClipPath(t *testing.T) {
	clip := tree.NewClipPath("c", tree.Identity(),
		tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 4, 8, tree.Black)}), nil)
	g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, red)}, tree.WithClipPath(clip))
	pm := mustRender(t, mustTree(t, 8, 8, g), 8, 8)

	expectPixel(t, pm, 1, 4, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 3, 4, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 4, 4, rgba{})
	expectPixel(t, pm, 7, 0, rgba{})
}

func TestNestedClipPathsIntersect(t *testing.T) {
	inner := tree.NewClipPath("", tree.Identity(),
		tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 4, tree.Black)}), nil)
	outer := tree.NewClipPath("", tree.Identity(),
		tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 4, 8, tree.Black)}), inner)
	g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, red)}, tree.WithClipPath(outer))
	pm := mustRender(t, mustTree(t, 8, 8, g), 8, 8)

	expectPixel(t, pm, 1, 1, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 6, 1, rgba{})
	expectPixel(t, pm, 1, 6, rgba{})
}

func TestMasks(t *testing.T) {
	tests := []struct {
		name    string
		kind    tree.MaskKind
		content tree.Color
		want    rgba
	}{
		{"luminance white", tree.MaskLuminance, white, rgba{255, 0, 0, 255}},
		{"luminance black", tree.MaskLuminance, tree.Black, rgba{}},
		{"alpha black", tree.MaskAlpha, tree.Black, rgba{255, 0, 0, 255}},
		{"alpha half", tree.MaskAlpha, tree.Color{A: 128}, rgba{128, 0, 0, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := tree.NewMask("m", tree.Rect{W: 4, H: 8}, tt.kind,
				tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, tt.content)}), nil)
			g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, red)}, tree.WithMask(mask))
			pm := mustRender(t, mustTree(t, 8, 8, g), 8, 8)

			expectPixel(t, pm, 1, 1, tt.want)
			expectPixel(t, pm, 6, 1, rgba{})
		})
	}
}

func TestNestedMasks(t *testing.T) {
	tests := []struct {
		name  string
		outer tree.MaskKind
		fill  tree.Color
	}{
		{"alpha in alpha", tree.MaskAlpha, tree.Black},
		{"alpha in luminance", tree.MaskLuminance, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the inner mask keeps the top half at 50% before the outer mask is reduced
			inner := tree.NewMask("", tree.Rect{W: 8, H: 4}, tree.MaskAlpha,
				tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, tree.Color{A: 128})}), nil)
			outer := tree.NewMask("", tree.Rect{W: 4, H: 8}, tt.outer,
				tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, tt.fill)}), inner)
			g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 8, 8, red)}, tree.WithMask(outer))
			pm := mustRender(t, mustTree(t, 8, 8, g), 8, 8)

			expectNear(t, pm, 1, 1, rgba{128, 0, 0, 128}, 1)
			expectPixel(t, pm, 1, 6, rgba{})
			expectPixel(t, pm, 6, 1, rgba{})
		})
	}
}

func TestDashedStrokeCaps(t *testing.T) {
	// dashes [2,4] [8,10] [14,16] on a 2px line; square caps add 1px at both ends of each
	tests := []struct {
		name    string
		cap     tree.LineCap
		covered []int
	}{
		{"butt", tree.LineCapButt, []int{2, 3, 8, 9, 14, 15}},
		{"square", tree.LineCapSquare, []int{1, 2, 3, 4, 7, 8, 9, 10, 13, 14, 15, 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := tree.NewPath("", tree.Identity(), []tree.Segment{tree.MoveTo(2, 5), tree.LineTo(18, 5)},
				tree.WithStroke(tree.NewStroke(tree.Black, 1, 2,
					tree.WithLineCap(tt.cap),
					tree.WithDash([]float32{2, 4}, 0))))
			pm := mustRender(t, mustTree(t, 20, 10, line), 20, 10)

			on := make(map[int]bool)
			for _, x := range tt.covered {
				on[x] = true
			}
			for x := 0; x < 20; x++ {
				want := rgba{}
				if on[x] {
					want = rgba{0, 0, 0, 255}
				}
				expectPixel(t, pm, x, 4, want)
				expectPixel(t, pm, x, 5, want)
			}
		})
	}
}

func TestBlendMultiply(t *testing.T) {
	g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 4, 4, green)},
		tree.WithBlendMode(tree.BlendMultiply))
	pm := mustRender(t, mustTree(t, 4, 4, rectPath("", 0, 0, 4, 4, red), g), 4, 4)
	expectPixel(t, pm, 2, 2, rgba{0, 0, 0, 255})
}

func TestBlendScreen(t *testing.T) {
	g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 4, 4, green)},
		tree.WithBlendMode(tree.BlendScreen))
	pm := mustRender(t, mustTree(t, 4, 4, rectPath("", 0, 0, 4, 4, red), g), 4, 4)
	expectPixel(t, pm, 2, 2, rgba{255, 255, 0, 255})
}

func TestLinearGradientPad(t *testing.T) {
	grad := tree.NewLinearGradient("", 0, 0, 10, 0, tree.Identity(), tree.SpreadPad, []tree.Stop{
		{Offset: 0, Color: red},
		{Offset: 1, Color: tree.Color{B: 255, A: 255}},
	})
	pm := mustRender(t, mustTree(t, 20, 2, rectPath("", 0, 0, 20, 2, grad)), 20, 2)

	expectNear(t, pm, 0, 0, rgba{242, 0, 13, 255}, 1)
	expectNear(t, pm, 5, 0, rgba{115, 0, 140, 255}, 1)
	expectPixel(t, pm, 15, 0, rgba{0, 0, 255, 255})
}

func TestPattern(t *testing.T) {
	pat := tree.NewPattern("p", tree.Rect{W: 2, H: 2}, tree.Identity(),
		tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 1, 1, tree.Black)}))
	pm := mustRender(t, mustTree(t, 4, 4, rectPath("", 0, 0, 4, 4, pat)), 4, 4)

	expectPixel(t, pm, 0, 0, rgba{0, 0, 0, 255})
	expectPixel(t, pm, 1, 0, rgba{})
	expectPixel(t, pm, 2, 2, rgba{0, 0, 0, 255})
	expectPixel(t, pm, 3, 3, rgba{})
}

func TestRasterImageNearest(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, stdcolor.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 1, stdcolor.RGBA{B: 255, A: 255})
	img := tree.NewRasterImage("img", tree.Identity(), tree.Size{W: 4, H: 4}, tree.ImagePNG, src,
		tree.WithImageRendering(tree.ImageRenderingOptimizeSpeed))
	pm := mustRender(t, mustTree(t, 4, 4, img), 4, 4)

	expectPixel(t, pm, 0, 0, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 1, 1, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 3, 0, rgba{})
	expectPixel(t, pm, 3, 3, rgba{0, 0, 255, 255})
}

func TestSVGImage(t *testing.T) {
	sub := mustTree(t, 2, 2, rectPath("", 0, 0, 1, 2, red))
	img := tree.NewSVGImage("nested", tree.Translate(2, 0), tree.Size{W: 4, H: 4}, sub)
	pm := mustRender(t, mustTree(t, 8, 4, img), 8, 4)

	expectPixel(t, pm, 2, 1, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 3, 3, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 4, 1, rgba{})
	expectPixel(t, pm, 0, 1, rgba{})
}

func TestTextFlattened(t *testing.T) {
	glyphs := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 2, 2, red)})
	txt := tree.NewText("t", tree.Translate(3, 3), tree.Rect{W: 2, H: 2}, glyphs)
	pm := mustRender(t, mustTree(t, 8, 8, txt), 8, 8)

	expectPixel(t, pm, 3, 3, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 4, 4, rgba{255, 0, 0, 255})
	expectPixel(t, pm, 2, 2, rgba{})
}

func TestCustomPool(t *testing.T) {
	r := NewRenderer(blend.NewPool(2))
	g := tree.NewGroup("", tree.Identity(), []tree.Node{rectPath("", 0, 0, 4, 4, red)}, tree.WithIsolate(true))
	pm := NewPixmap(4, 4)
	if err := r.Render(mustTree(t, 4, 4, g), tree.Identity(), pm); err != nil {
		t.Fatal(err)
	}
	expectPixel(t, pm, 1, 1, rgba{255, 0, 0, 255})
}

func TestRasterImageConvertedOnce(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, stdcolor.NRGBA{R: 255, A: 128})
	img := tree.NewRasterImage("img", tree.Identity(), tree.Size{W: 2, H: 2}, tree.ImagePNG, src,
		tree.WithImageRendering(tree.ImageRenderingOptimizeSpeed))
	tr := mustTree(t, 2, 2, img)

	r := NewRenderer(nil)
	for range 3 {
		pm := NewPixmap(2, 2)
		if err := r.Render(tr, tree.Identity(), pm); err != nil {
			t.Fatal(err)
		}
		expectPixel(t, pm, 0, 0, rgba{128, 0, 0, 128})
		expectPixel(t, pm, 1, 1, rgba{})
	}

	s := r.images.Stats()
	if s.Len != 1 || s.Misses != 1 || s.Hits != 2 {
		t.Errorf("image cache stats = %+v, want one conversion reused twice", s)
	}
}
