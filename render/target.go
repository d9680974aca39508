// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
)

// Pixmap is a premultiplied RGBA8888 render target, row-major with a
// top-left origin and no row padding.
//
// Example:
//
//	pm := render.NewPixmap(800, 600)
//	render.Render(t, tree.Identity(), pm)
//	img := pm.Image()
type Pixmap struct {
	img *image.RGBA
}

// NewPixmap allocates a transparent pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// NewPixmapFromBytes wraps pix, which must hold exactly width×height×4
// bytes. The buffer is used directly without copying.
func NewPixmapFromBytes(width, height int, pix []byte) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: buffer holds %d bytes, want %d", ErrInvalidTarget, len(pix), width*height*4)
	}
	return &Pixmap{img: &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}}, nil
}

// Width returns the pixmap width in pixels.
func (p *Pixmap) Width() int {
	return p.img.Rect.Dx()
}

// Height returns the pixmap height in pixels.
func (p *Pixmap) Height() int {
	return p.img.Rect.Dy()
}

// Pixels returns direct access to the pixel data.
func (p *Pixmap) Pixels() []byte {
	return p.img.Pix
}

// Image returns the pixmap as an *image.RGBA, which is premultiplied as
// well. The returned image shares memory with the pixmap.
func (p *Pixmap) Image() *image.RGBA {
	return p.img
}

// validate reports whether the pixmap can be rendered into.
func (p *Pixmap) validate() error {
	if p == nil || p.img == nil {
		return fmt.Errorf("%w: nil pixmap", ErrInvalidTarget)
	}
	w, h := p.Width(), p.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTarget, w, h)
	}
	if p.img.Stride != w*4 || len(p.img.Pix) != w*h*4 || p.img.Rect.Min != (image.Point{}) {
		return fmt.Errorf("%w: buffer is not a tightly packed %dx%d image", ErrInvalidTarget, w, h)
	}
	return nil
}
