// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render paints a frozen render tree onto a premultiplied RGBA8888
// pixmap.
//
// # Pipeline
//
// The compositor walks the tree depth first. Transforms are composed on the
// way down; groups that need isolation (opacity below 1, a non-normal blend
// mode, a mask, a clip path or an explicit isolate flag) are painted into an
// offscreen float32 layer that is clipped, masked and blended into its parent
// on the way up. Other groups paint straight onto the current target.
//
// Paths are flattened and stroked in device space, scan-converted into a
// coverage mask with 4 sub-scanlines per pixel and shaded by a solid color,
// gradient or pattern tile. Raster images are resampled with
// golang.org/x/image/draw; nested SVG images render their own tree.
//
// # Usage
//
//	pm := render.NewPixmap(256, 256)
//	if err := render.Render(t, tree.Identity(), pm); err != nil {
//	    return err
//	}
//	png.Encode(w, pm.Image())
//
// # Thread Safety
//
// A tree may be rendered by any number of goroutines at once as long as each
// one writes its own pixmap. Layer buffers come from a shared pool that is
// safe for concurrent use.
package render
