// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/rtree/tree"
)

var (
	red   = tree.Color{R: 255, A: 255}
	green = tree.Color{G: 255, A: 255}
	white = tree.Color{R: 255, G: 255, B: 255, A: 255}
)

func rectPath(id string, x, y, w, h float32, p tree.Paint) *tree.Path {
	return tree.NewPath(id, tree.Identity(), []tree.Segment{
		tree.MoveTo(x, y),
		tree.LineTo(x+w, y),
		tree.LineTo(x+w, y+h),
		tree.LineTo(x, y+h),
		tree.Close(),
	}, tree.WithFill(tree.NewFill(p, 1, tree.FillRuleNonZero)))
}

func mustTree(t *testing.T, w, h float32, children ...tree.Node) *tree.Tree {
	t.Helper()
	tr, err := tree.New(tree.Size{W: w, H: h}, tree.NewGroup("", tree.Identity(), children), tree.Options{})
	if err != nil {
		t.Fatalf("tree.New() error = %v", err)
	}
	return tr
}

func mustRender(t *testing.T, tr *tree.Tree, w, h int) *Pixmap {
	t.Helper()
	pm := NewPixmap(w, h)
	if err := Render(tr, tree.Identity(), pm); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return pm
}

type rgba [4]uint8

func pixel(pm *Pixmap, x, y int) rgba {
	i := (y*pm.Width() + x) * 4
	p := pm.Pixels()
	return rgba{p[i], p[i+1], p[i+2], p[i+3]}
}

func expectPixel(t *testing.T, pm *Pixmap, x, y int, want rgba) {
	t.Helper()
	if got := pixel(pm, x, y); got != want {
		t.Errorf("pixel(%d, %d) = %v, want %v", x, y, got, want)
	}
}

func expectNear(t *testing.T, pm *Pixmap, x, y int, want rgba, tol int) {
	t.Helper()
	got := pixel(pm, x, y)
	for i := range got {
		d := int(got[i]) - int(want[i])
		if d < -tol || d > tol {
			t.Errorf("pixel(%d, %d) = %v, want %v ±%d", x, y, got, want, tol)
			return
		}
	}
}
