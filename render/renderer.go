// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/internal/cache"
	"github.com/gogpu/rtree/internal/geom"
	"github.com/gogpu/rtree/tree"
)

// Render errors. A failed render leaves the pixmap untouched.
var (
	// ErrInvalidTarget is returned for a zero-sized pixmap or a buffer of
	// the wrong length.
	ErrInvalidTarget = errors.New("render: invalid target")

	// ErrEmptyTree is returned when the tree has nothing to render.
	ErrEmptyTree = errors.New("render: empty tree")

	// ErrNodeNotFound is returned by RenderNode for an unknown or
	// non-renderable identifier.
	ErrNodeNotFound = errors.New("render: node not found")

	// ErrZeroBBox is returned by RenderNode when the node's bounding box
	// has zero width or height.
	ErrZeroBBox = errors.New("render: node has a zero-sized bounding box")
)

// Renderer paints render trees. The zero value is not usable; use
// NewRenderer.
//
// Thread Safety: a Renderer may be used by many goroutines at once, each
// writing its own pixmap.
type Renderer struct {
	pool *blend.Pool

	// images holds raster image payloads converted to premultiplied RGBA.
	// Trees are immutable, so entries never go stale.
	images *cache.Sharded[*tree.Image, *image.RGBA]
}

// NewRenderer creates a renderer that takes layers from pool. A nil pool
// selects the shared default pool.
func NewRenderer(pool *blend.Pool) *Renderer {
	return &Renderer{
		pool:   pool,
		images: cache.NewSharded[*tree.Image, *image.RGBA](imageCacheCapacity),
	}
}

// imageCacheCapacity is the per-shard number of converted images kept.
const imageCacheCapacity = 8

var defaultRenderer = NewRenderer(nil)

// Render paints t onto pm with the default renderer.
func Render(t *tree.Tree, ts tree.Transform, pm *Pixmap) error {
	return defaultRenderer.Render(t, ts, pm)
}

// RenderNode paints one node of t onto pm with the default renderer.
func RenderNode(t *tree.Tree, id string, ts tree.Transform, pm *Pixmap) error {
	return defaultRenderer.RenderNode(t, id, ts, pm)
}

// Render paints the whole tree. ts maps the document onto the pixmap; the
// output is clipped to the document rect (0, 0, size) mapped by ts. The
// pixmap is fully overwritten.
func (r *Renderer) Render(t *tree.Tree, ts tree.Transform, pm *Pixmap) error {
	if err := pm.validate(); err != nil {
		return err
	}
	if t == nil || t.IsEmpty() {
		return ErrEmptyTree
	}
	if !ts.IsFinite() {
		return fmt.Errorf("%w: non-finite transform", ErrInvalidTarget)
	}

	c := r.newCompositor(pm.Width(), pm.Height())
	dst := c.getLayer()
	defer c.putLayer(dst)

	c.renderGroup(t.Root(), geom.Compose(ts, t.ViewBoxTransform()), dst)
	c.clipToRect(dst, t.Size().ToRect(), ts)

	dst.WriteRGBA8(pm.Pixels())
	slogger().Debug("render: tree", "width", pm.Width(), "height", pm.Height(), "nodes", t.Len())
	return nil
}

// RenderNode paints the subtree of the node with the given identifier. The
// node is placed at its canvas position mapped by ts: ts is composed with
// the absolute transform of the node's parent, and the node's own transform
// is applied once. The output is not clipped to the document.
func (r *Renderer) RenderNode(t *tree.Tree, id string, ts tree.Transform, pm *Pixmap) error {
	if err := pm.validate(); err != nil {
		return err
	}
	if t == nil {
		return ErrEmptyTree
	}
	n, ok := t.NodeByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	bbox, ok := n.StrokeBBox()
	if !ok || bbox.W == 0 || bbox.H == 0 {
		return fmt.Errorf("%w: %q", ErrZeroBBox, id)
	}
	if !ts.IsFinite() {
		return fmt.Errorf("%w: non-finite transform", ErrInvalidTarget)
	}
	parent, _ := t.ParentTransform(id)

	c := r.newCompositor(pm.Width(), pm.Height())
	dst := c.getLayer()
	defer c.putLayer(dst)

	c.renderNode(n, geom.Compose(ts, parent), dst)

	dst.WriteRGBA8(pm.Pixels())
	slogger().Debug("render: node", "id", id, "width", pm.Width(), "height", pm.Height())
	return nil
}
