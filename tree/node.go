package tree

import (
	"image"
	"slices"

	"github.com/gogpu/rtree/internal/blend"
)

// Node is one of *Group, *Path, *Image or *Text.
type Node interface {
	// ID returns the element identifier, or "" if unset.
	ID() string
	// Transform returns the transform relative to the parent.
	Transform() Transform
	// AbsTransform returns the composition of all ancestor transforms with
	// the node's own, root first.
	AbsTransform() Transform
	// BBox returns the object bounding box in canvas coordinates.
	BBox() (Rect, bool)
	// StrokeBBox returns the bounding box including stroke, in canvas
	// coordinates.
	StrokeBBox() (Rect, bool)

	base() *nodeBase
}

// nodeBase holds the fields every node shares. Everything except id and
// transform is derived by New.
type nodeBase struct {
	id        string
	transform Transform
	abs       Transform
	parentAbs Transform

	bbox       Rect
	strokeBBox Rect
	hasBBox    bool

	owned bool
}

func (b *nodeBase) base() *nodeBase { return b }

// ID implements Node.
func (b *nodeBase) ID() string { return b.id }

// Transform implements Node.
func (b *nodeBase) Transform() Transform { return b.transform }

// AbsTransform implements Node.
func (b *nodeBase) AbsTransform() Transform { return b.abs }

// BBox implements Node.
func (b *nodeBase) BBox() (Rect, bool) { return b.bbox, b.hasBBox }

// StrokeBBox implements Node.
func (b *nodeBase) StrokeBBox() (Rect, bool) { return b.strokeBBox, b.hasBBox }

// BlendMode is a group compositing mode.
type BlendMode = blend.BlendMode

// Blend modes.
const (
	BlendNormal     = blend.BlendNormal
	BlendMultiply   = blend.BlendMultiply
	BlendScreen     = blend.BlendScreen
	BlendOverlay    = blend.BlendOverlay
	BlendDarken     = blend.BlendDarken
	BlendLighten    = blend.BlendLighten
	BlendColorDodge = blend.BlendColorDodge
	BlendColorBurn  = blend.BlendColorBurn
	BlendHardLight  = blend.BlendHardLight
	BlendSoftLight  = blend.BlendSoftLight
	BlendDifference = blend.BlendDifference
	BlendExclusion  = blend.BlendExclusion
	BlendHue        = blend.BlendHue
	BlendSaturation = blend.BlendSaturation
	BlendColor      = blend.BlendColor
	BlendLuminosity = blend.BlendLuminosity
)

// Group is a container node with compositing properties.
type Group struct {
	nodeBase
	children  []Node
	opacity   float32
	blendMode BlendMode
	isolate   bool
	mask      *Mask
	clipPath  *ClipPath
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithOpacity sets the group opacity, clamped to [0, 1]. The default is 1.
func WithOpacity(opacity float32) GroupOption {
	return func(g *Group) { g.opacity = clampOpacity(opacity) }
}

// WithBlendMode sets the group blend mode. The default is normal.
func WithBlendMode(m BlendMode) GroupOption {
	return func(g *Group) { g.blendMode = m }
}

// WithIsolate forces the group onto its own layer.
func WithIsolate(isolate bool) GroupOption {
	return func(g *Group) { g.isolate = isolate }
}

// WithMask attaches a mask.
func WithMask(m *Mask) GroupOption {
	return func(g *Group) { g.mask = m }
}

// WithClipPath attaches a clip path.
func WithClipPath(c *ClipPath) GroupOption {
	return func(g *Group) { g.clipPath = c }
}

// NewGroup creates a group. Children are painted in order, the first one
// bottom-most. The children slice is copied.
func NewGroup(id string, ts Transform, children []Node, opts ...GroupOption) *Group {
	g := &Group{
		nodeBase:  nodeBase{id: id, transform: ts},
		children:  slices.Clone(children),
		opacity:   1,
		blendMode: BlendNormal,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Children returns the child nodes. The slice must not be modified.
func (g *Group) Children() []Node { return g.children }

// Child returns the i-th child.
func (g *Group) Child(i int) Node { return g.children[i] }

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// Opacity returns the group opacity.
func (g *Group) Opacity() float32 { return g.opacity }

// BlendMode returns the group blend mode.
func (g *Group) BlendMode() BlendMode { return g.blendMode }

// Isolate reports whether the group was marked isolated.
func (g *Group) Isolate() bool { return g.isolate }

// Mask returns the mask, or nil.
func (g *Group) Mask() *Mask { return g.mask }

// ClipPath returns the clip path, or nil.
func (g *Group) ClipPath() *ClipPath { return g.clipPath }

// NeedsLayer reports whether the group must be rendered to an offscreen
// layer before compositing.
func (g *Group) NeedsLayer() bool {
	return g.isolate || g.opacity < 1 || g.blendMode != BlendNormal || g.mask != nil || g.clipPath != nil
}

// ShapeRendering selects anti-aliasing for paths.
type ShapeRendering uint8

const (
	// ShapeRenderingUnset takes the tree default.
	ShapeRenderingUnset ShapeRendering = iota
	// ShapeRenderingOptimizeSpeed disables anti-aliasing.
	ShapeRenderingOptimizeSpeed
	// ShapeRenderingCrispEdges disables anti-aliasing.
	ShapeRenderingCrispEdges
	// ShapeRenderingGeometricPrecision enables anti-aliasing.
	ShapeRenderingGeometricPrecision
)

// AntiAlias reports whether the mode renders anti-aliased edges.
func (s ShapeRendering) AntiAlias() bool {
	return s != ShapeRenderingOptimizeSpeed && s != ShapeRenderingCrispEdges
}

// Path is a geometry leaf.
type Path struct {
	nodeBase
	segments  []Segment
	visible   bool
	fill      *Fill
	stroke    *Stroke
	rendering ShapeRendering
}

// PathOption configures a Path.
type PathOption func(*Path)

// WithFill sets the fill.
func WithFill(f *Fill) PathOption {
	return func(p *Path) { p.fill = f }
}

// WithStroke sets the stroke.
func WithStroke(s *Stroke) PathOption {
	return func(p *Path) { p.stroke = s }
}

// WithPathVisibility sets whether the path is painted. The default is true.
func WithPathVisibility(visible bool) PathOption {
	return func(p *Path) { p.visible = visible }
}

// WithShapeRendering overrides the tree default.
func WithShapeRendering(r ShapeRendering) PathOption {
	return func(p *Path) { p.rendering = r }
}

// NewPath creates a path. A non-empty segment list must begin with MoveTo;
// New rejects it otherwise. The segments are copied.
func NewPath(id string, ts Transform, segments []Segment, opts ...PathOption) *Path {
	p := &Path{
		nodeBase: nodeBase{id: id, transform: ts},
		segments: slices.Clone(segments),
		visible:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Segments returns the path data. The slice must not be modified.
func (p *Path) Segments() []Segment { return p.segments }

// IsVisible reports whether the path is painted.
func (p *Path) IsVisible() bool { return p.visible }

// Fill returns the fill, or nil.
func (p *Path) Fill() *Fill { return p.fill }

// Stroke returns the stroke, or nil. A stroke with a non-positive width is
// reported as nil.
func (p *Path) Stroke() *Stroke {
	if p.stroke == nil || !(p.stroke.width > 0) {
		return nil
	}
	return p.stroke
}

// ShapeRendering returns the baked rendering mode.
func (p *Path) ShapeRendering() ShapeRendering { return p.rendering }

// AntiAlias reports whether the path is rendered with anti-aliasing.
func (p *Path) AntiAlias() bool { return p.rendering.AntiAlias() }

// ImageKind identifies the payload format of an image.
type ImageKind uint8

// Image kinds.
const (
	ImageJPEG ImageKind = iota
	ImagePNG
	ImageGIF
	ImageSVG
)

// String returns the lower-case format name.
func (k ImageKind) String() string {
	switch k {
	case ImageJPEG:
		return "jpeg"
	case ImagePNG:
		return "png"
	case ImageGIF:
		return "gif"
	case ImageSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// ImageRendering selects the resampling quality of raster images.
type ImageRendering uint8

const (
	// ImageRenderingUnset takes the tree default.
	ImageRenderingUnset ImageRendering = iota
	// ImageRenderingOptimizeQuality resamples smoothly.
	ImageRenderingOptimizeQuality
	// ImageRenderingOptimizeSpeed resamples with nearest neighbour.
	ImageRenderingOptimizeSpeed
)

// Smooth reports whether images are resampled smoothly.
func (r ImageRendering) Smooth() bool {
	return r != ImageRenderingOptimizeSpeed
}

// Image is a raster or nested SVG leaf, drawn into (0, 0, size).
type Image struct {
	nodeBase
	visible   bool
	size      Size
	kind      ImageKind
	rendering ImageRendering
	raster    image.Image
	svg       *Tree
}

// ImageOption configures an Image.
type ImageOption func(*Image)

// WithImageVisibility sets whether the image is painted. The default is true.
func WithImageVisibility(visible bool) ImageOption {
	return func(i *Image) { i.visible = visible }
}

// WithImageRendering overrides the tree default.
func WithImageRendering(r ImageRendering) ImageOption {
	return func(i *Image) { i.rendering = r }
}

// NewRasterImage creates an image with a decoded raster payload. The payload
// is kept by reference and must not be modified afterwards.
func NewRasterImage(id string, ts Transform, size Size, kind ImageKind, img image.Image, opts ...ImageOption) *Image {
	i := &Image{
		nodeBase: nodeBase{id: id, transform: ts},
		visible:  true,
		size:     size,
		kind:     kind,
		raster:   img,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewSVGImage creates an image whose payload is another render tree.
func NewSVGImage(id string, ts Transform, size Size, sub *Tree, opts ...ImageOption) *Image {
	i := &Image{
		nodeBase: nodeBase{id: id, transform: ts},
		visible:  true,
		size:     size,
		kind:     ImageSVG,
		svg:      sub,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IsVisible reports whether the image is painted.
func (i *Image) IsVisible() bool { return i.visible }

// Size returns the view size.
func (i *Image) Size() Size { return i.size }

// Kind returns the payload format.
func (i *Image) Kind() ImageKind { return i.kind }

// Rendering returns the baked rendering quality.
func (i *Image) Rendering() ImageRendering { return i.rendering }

// Raster returns the decoded raster payload, or nil for SVG images.
func (i *Image) Raster() image.Image { return i.raster }

// SVG returns the nested tree, or nil for raster images.
func (i *Image) SVG() *Tree { return i.svg }

// Text is text already converted to paths by a shaping collaborator.
type Text struct {
	nodeBase
	textBBox  Rect
	flattened *Group
}

// NewText creates a text node from its layout bounding box (in the text's
// own coordinate system) and its flattened outlines.
func NewText(id string, ts Transform, bbox Rect, flattened *Group) *Text {
	return &Text{
		nodeBase:  nodeBase{id: id, transform: ts},
		textBBox:  bbox,
		flattened: flattened,
	}
}

// TextBBox returns the layout bounding box in the text's coordinate system.
func (t *Text) TextBBox() Rect { return t.textBBox }

// Flattened returns the text outlines.
func (t *Text) Flattened() *Group { return t.flattened }

// MaskKind selects how mask content becomes coverage.
type MaskKind uint8

// Mask kinds.
const (
	MaskLuminance MaskKind = iota
	MaskAlpha
)

// String returns the CSS mask-type keyword.
func (k MaskKind) String() string {
	if k == MaskAlpha {
		return "alpha"
	}
	return "luminance"
}

// Mask restricts a group to the coverage derived from its content.
type Mask struct {
	id   string
	rect Rect
	kind MaskKind
	root *Group
	mask *Mask
}

// NewMask creates a mask. rect is the effect region in the user space of
// the masked group. nested, if non-nil, is applied to the mask content.
func NewMask(id string, rect Rect, kind MaskKind, root *Group, nested *Mask) *Mask {
	return &Mask{id: id, rect: rect, kind: kind, root: root, mask: nested}
}

// ID returns the mask identifier.
func (m *Mask) ID() string { return m.id }

// Rect returns the effect region.
func (m *Mask) Rect() Rect { return m.rect }

// Kind returns the mask kind.
func (m *Mask) Kind() MaskKind { return m.kind }

// Root returns the mask content.
func (m *Mask) Root() *Group { return m.root }

// Mask returns the nested mask, or nil.
func (m *Mask) Mask() *Mask { return m.mask }

// ClipPath restricts a group to the area of its content.
type ClipPath struct {
	id        string
	transform Transform
	root      *Group
	clipPath  *ClipPath
}

// NewClipPath creates a clip path. nested, if non-nil, intersects with it.
func NewClipPath(id string, ts Transform, root *Group, nested *ClipPath) *ClipPath {
	return &ClipPath{id: id, transform: ts, root: root, clipPath: nested}
}

// ID returns the clip path identifier.
func (c *ClipPath) ID() string { return c.id }

// Transform returns the clip path transform.
func (c *ClipPath) Transform() Transform { return c.transform }

// Root returns the clip content.
func (c *ClipPath) Root() *Group { return c.root }

// ClipPath returns the nested clip path, or nil.
func (c *ClipPath) ClipPath() *ClipPath { return c.clipPath }
