package tree

import (
	"errors"
	"fmt"

	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/internal/path"
	"github.com/gogpu/rtree/internal/stroke"
)

// DefaultElementsLimit is the maximum number of nodes a tree may hold.
const DefaultElementsLimit = 1_000_000

// bboxTolerance is the flattening tolerance used for stroke bounds, in
// canvas units.
const bboxTolerance = 0.1

// Construction errors.
var (
	// ErrInvalidSize is returned when the tree size is not finite and
	// positive.
	ErrInvalidSize = errors.New("tree: invalid size")

	// ErrElementsLimitReached is returned when a tree has too many nodes.
	ErrElementsLimitReached = errors.New("tree: elements limit reached")

	// ErrInvalidPath is returned for path data that does not start with
	// MoveTo or holds non-finite coordinates.
	ErrInvalidPath = errors.New("tree: invalid path data")

	// ErrInvalidGradient is returned for gradients without stops, with
	// decreasing or out-of-range offsets, or with a non-finite transform.
	ErrInvalidGradient = errors.New("tree: invalid gradient")

	// ErrDuplicateID is returned when two render nodes share an identifier.
	ErrDuplicateID = errors.New("tree: duplicate id")

	// ErrNodeShared is returned when a node is attached more than once, in
	// one tree or across trees.
	ErrNodeShared = errors.New("tree: node attached more than once")

	errNilNode = errors.New("tree: nil node")
)

// Options controls tree construction.
type Options struct {
	// ViewBox is the region of user space mapped onto Size. A zero rect
	// means (0, 0, Size).
	ViewBox Rect

	// ShapeRendering is the default for paths that leave it unset.
	// Unset means geometric precision.
	ShapeRendering ShapeRendering

	// ImageRendering is the default for images that leave it unset.
	// Unset means optimize quality.
	ImageRendering ImageRendering

	// ElementsLimit caps the node count. Zero means DefaultElementsLimit.
	ElementsLimit int
}

// Tree is a frozen render tree.
type Tree struct {
	size    Size
	viewBox Rect
	root    *Group

	nodes []Node // render nodes in pre-order, root first
	ids   map[string]Node
}

// New validates root, bakes defaults and derives absolute transforms and
// bounding boxes, then returns the frozen tree. Nodes passed to New must
// not be passed to another call.
func New(size Size, root *Group, opts Options) (*Tree, error) {
	if !size.IsValid() {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidSize, size.W, size.H)
	}
	if root == nil {
		root = NewGroup("", Identity(), nil)
	}
	if opts.ViewBox == (Rect{}) {
		opts.ViewBox = size.ToRect()
	}
	if !opts.ViewBox.IsValid() || opts.ViewBox.IsEmpty() {
		return nil, fmt.Errorf("%w: view box %v", ErrInvalidSize, opts.ViewBox)
	}
	if opts.ShapeRendering == ShapeRenderingUnset {
		opts.ShapeRendering = ShapeRenderingGeometricPrecision
	}
	if opts.ImageRendering == ImageRenderingUnset {
		opts.ImageRendering = ImageRenderingOptimizeQuality
	}
	if opts.ElementsLimit <= 0 {
		opts.ElementsLimit = DefaultElementsLimit
	}

	b := &builder{
		opts:  opts,
		seen:  make(map[Node]struct{}),
		defs:  make(map[any]struct{}),
		ids:   make(map[string]Node),
		limit: opts.ElementsLimit,
	}
	if err := b.visit(root, Identity(), true); err != nil {
		return nil, err
	}
	for n := range b.seen {
		n.base().owned = true
	}
	computeBBox(root)

	return &Tree{
		size:    size,
		viewBox: opts.ViewBox,
		root:    root,
		nodes:   b.nodes,
		ids:     b.ids,
	}, nil
}

// builder carries the state of one New call.
type builder struct {
	opts  Options
	seen  map[Node]struct{}
	defs  map[any]struct{}
	nodes []Node
	ids   map[string]Node
	count int
	limit int
}

// visit validates n and its subtree, computing absolute transforms. render
// is false inside mask, clip, pattern and text content, whose nodes are not
// indexed.
func (b *builder) visit(n Node, parentAbs Transform, render bool) error {
	if n == nil {
		return errNilNode
	}
	nb := n.base()
	if _, dup := b.seen[n]; dup || nb.owned {
		return fmt.Errorf("%w: %q", ErrNodeShared, nb.id)
	}
	b.seen[n] = struct{}{}
	b.count++
	if b.count > b.limit {
		return fmt.Errorf("%w: more than %d", ErrElementsLimitReached, b.limit)
	}
	nb.parentAbs = parentAbs
	nb.abs = geom.Compose(parentAbs, nb.transform)

	if render {
		b.nodes = append(b.nodes, n)
		if nb.id != "" {
			if _, dup := b.ids[nb.id]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateID, nb.id)
			}
			b.ids[nb.id] = n
		}
	}

	switch n := n.(type) {
	case *Group:
		if err := b.visitClip(n.clipPath); err != nil {
			return err
		}
		if err := b.visitMask(n.mask); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := b.visit(c, nb.abs, render); err != nil {
				return err
			}
		}
	case *Path:
		if !path.Validate(n.segments) {
			return fmt.Errorf("%w: %q", ErrInvalidPath, nb.id)
		}
		if n.rendering == ShapeRenderingUnset {
			n.rendering = b.opts.ShapeRendering
		}
		if n.fill != nil {
			if err := b.visitPaint(n.fill.paint); err != nil {
				return err
			}
		}
		if n.stroke != nil {
			if err := b.visitPaint(n.stroke.paint); err != nil {
				return err
			}
		}
	case *Image:
		if n.rendering == ImageRenderingUnset {
			n.rendering = b.opts.ImageRendering
		}
	case *Text:
		if n.flattened != nil {
			if err := b.visit(n.flattened, nb.abs, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// visitContent walks a definition's content once. Definitions may be
// shared between nodes; their content nodes may not. Content absolute
// transforms are relative to the content coordinate system, since a shared
// definition has no single canvas position.
func (b *builder) visitContent(def any, root *Group, base Transform) error {
	if _, ok := b.defs[def]; ok {
		return nil
	}
	b.defs[def] = struct{}{}
	if root == nil {
		return nil
	}
	return b.visit(root, base, false)
}

func (b *builder) visitClip(c *ClipPath) error {
	for ; c != nil; c = c.clipPath {
		if err := b.visitContent(c, c.root, c.transform); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) visitMask(m *Mask) error {
	for ; m != nil; m = m.mask {
		if err := b.visitContent(m, m.root, Identity()); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) visitPaint(p Paint) error {
	switch p := p.(type) {
	case *LinearGradient:
		if p == nil {
			return fmt.Errorf("%w: nil linear gradient", ErrInvalidGradient)
		}
		if !p.valid() {
			return fmt.Errorf("%w: %q", ErrInvalidGradient, p.id)
		}
	case *RadialGradient:
		if p == nil {
			return fmt.Errorf("%w: nil radial gradient", ErrInvalidGradient)
		}
		if !p.valid() {
			return fmt.Errorf("%w: %q", ErrInvalidGradient, p.id)
		}
	case *Pattern:
		if p == nil {
			return nil
		}
		return b.visitContent(p, p.root, Identity())
	}
	return nil
}

// computeBBox fills object and stroke bounds bottom-up from the absolute
// transforms.
func computeBBox(n Node) {
	nb := n.base()
	var obj, strk geom.BBox
	switch n := n.(type) {
	case *Group:
		for _, c := range n.children {
			computeBBox(c)
			cb := c.base()
			if cb.hasBBox {
				obj.AddRect(cb.bbox)
				strk.AddRect(cb.strokeBBox)
			}
		}
	case *Path:
		if !n.visible || (n.fill == nil && n.Stroke() == nil) {
			break
		}
		r, ok := path.Bounds(n.segments, nb.abs)
		if !ok {
			break
		}
		obj.AddRect(r)
		strk.AddRect(r)
		if s := n.Stroke(); s != nil {
			for _, poly := range stroke.Outline(n.segments, nb.abs, s.Style(), s.DashPattern(), bboxTolerance) {
				for _, p := range poly {
					strk.Add(p)
				}
			}
		}
	case *Image:
		if !n.visible || !n.size.IsValid() {
			break
		}
		r := nb.abs.TransformRect(n.size.ToRect())
		obj.AddRect(r)
		strk.AddRect(r)
	case *Text:
		if n.flattened == nil {
			break
		}
		computeBBox(n.flattened)
		fb := n.flattened.base()
		if !fb.hasBBox {
			break
		}
		obj.AddRect(nb.abs.TransformRect(n.textBBox))
		strk.AddRect(nb.abs.TransformRect(n.textBBox))
		strk.AddRect(fb.strokeBBox)
	}
	nb.bbox, nb.hasBBox = obj.Rect()
	nb.strokeBBox, _ = strk.Rect()
}
