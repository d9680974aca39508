package rtree

import (
	"fmt"
	"image"

	"github.com/gogpu/rtree/render"
	"github.com/gogpu/rtree/tree"
)

// Core types re-exported from package tree.
type (
	Tree      = tree.Tree
	Node      = tree.Node
	Group     = tree.Group
	Path      = tree.Path
	Image     = tree.Image
	Text      = tree.Text
	Transform = tree.Transform
	Rect      = tree.Rect
	Size      = tree.Size
)

// Identity returns the identity transform.
func Identity() Transform { return tree.Identity() }

// Render paints t into pixmap, a premultiplied RGBA8888 buffer of exactly
// width×height×4 bytes, row-major with a top-left origin. ts maps the
// document onto the buffer. The buffer is fully overwritten on success and
// left untouched on error.
func Render(t *Tree, ts Transform, width, height int, pixmap []byte) error {
	pm, err := render.NewPixmapFromBytes(width, height, pixmap)
	if err != nil {
		return err
	}
	return render.Render(t, ts, pm)
}

// RenderNode paints the node with the given id and its descendants into
// pixmap. The node keeps its canvas position, mapped by ts.
func RenderNode(t *Tree, id string, ts Transform, width, height int, pixmap []byte) error {
	pm, err := render.NewPixmapFromBytes(width, height, pixmap)
	if err != nil {
		return err
	}
	return render.RenderNode(t, id, ts, pm)
}

// RenderImage renders t into a new image of the given size.
func RenderImage(t *Tree, ts Transform, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", render.ErrInvalidTarget, width, height)
	}
	pm := render.NewPixmap(width, height)
	if err := render.Render(t, ts, pm); err != nil {
		return nil, err
	}
	return pm.Image(), nil
}

// FitTransform returns the transform that scales a document of size s
// uniformly to fit width×height, anchored at the top-left corner.
func FitTransform(s Size, width, height int) Transform {
	k := min(float32(width)/s.W, float32(height)/s.H)
	return tree.Scale(k, k)
}
