package tree

import (
	"unicode/utf8"

	"github.com/chewxy/math32"
)

// Size returns the declared document size.
func (t *Tree) Size() Size { return t.size }

// ViewBox returns the region of root space shown by a whole-tree render.
func (t *Tree) ViewBox() Rect { return t.viewBox }

// ViewBoxTransform maps the view box onto (0, 0, Size), scaled uniformly
// and centered.
func (t *Tree) ViewBoxTransform() Transform {
	vb := t.viewBox
	if vb == t.size.ToRect() {
		return Identity()
	}
	s := math32.Min(t.size.W/vb.W, t.size.H/vb.H)
	dx := (t.size.W - vb.W*s) / 2
	dy := (t.size.H - vb.H*s) / 2
	return Translate(dx, dy).PreScale(s, s).PreTranslate(-vb.X, -vb.Y)
}

// Root returns the root group.
func (t *Tree) Root() *Group { return t.root }

// IsEmpty reports whether the root group has no children.
func (t *Tree) IsEmpty() bool { return len(t.root.children) == 0 }

// Len returns the number of render nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Walk calls fn for every render node in pre-order, stopping early when fn
// returns false. Mask, clip path, pattern and text content is not visited.
func (t *Tree) Walk(fn func(Node) bool) {
	for _, n := range t.nodes {
		if !fn(n) {
			return
		}
	}
}

// ObjectBBox returns the union of all object bounding boxes in root
// coordinates. ok is false when nothing is paintable.
func (t *Tree) ObjectBBox() (Rect, bool) {
	return t.root.BBox()
}

// ImageBBox returns the union of all stroke bounding boxes in root
// coordinates, ignoring the view box. ok is false when nothing is paintable.
func (t *Tree) ImageBBox() (Rect, bool) {
	return t.root.StrokeBBox()
}

// NodeByID returns the render node with the given identifier. Empty and
// non-UTF-8 identifiers are never found, nor are identifiers of
// definitions or of nodes that only exist inside definitions.
func (t *Tree) NodeByID(id string) (Node, bool) {
	if id == "" || !utf8.ValidString(id) {
		return nil, false
	}
	n, ok := t.ids[id]
	return n, ok
}

// NodeExists reports whether NodeByID finds id.
func (t *Tree) NodeExists(id string) bool {
	_, ok := t.NodeByID(id)
	return ok
}

// NodeTransform returns the absolute transform of the node with the given
// identifier.
func (t *Tree) NodeTransform(id string) (Transform, bool) {
	n, ok := t.NodeByID(id)
	if !ok {
		return Transform{}, false
	}
	return n.AbsTransform(), true
}

// NodeBBox returns the object bounding box of the node with the given
// identifier, in root coordinates.
func (t *Tree) NodeBBox(id string) (Rect, bool) {
	n, ok := t.NodeByID(id)
	if !ok {
		return Rect{}, false
	}
	return n.BBox()
}

// NodeStrokeBBox returns the stroke bounding box of the node with the given
// identifier, in root coordinates.
func (t *Tree) NodeStrokeBBox(id string) (Rect, bool) {
	n, ok := t.NodeByID(id)
	if !ok {
		return Rect{}, false
	}
	return n.StrokeBBox()
}

// ParentTransform returns the absolute transform of the parent of the node
// with the given identifier, or the identity for the root.
func (t *Tree) ParentTransform(id string) (Transform, bool) {
	n, ok := t.NodeByID(id)
	if !ok {
		return Transform{}, false
	}
	return n.base().parentAbs, true
}
