// Package rtree renders SVG render trees into premultiplied RGBA pixel
// buffers.
//
// # Overview
//
// A render tree is the output of SVG normalization: styles are resolved,
// shapes are converted to absolute paths, units are in user space and
// every paint server, clip path and mask is a direct object reference.
// rtree builds an immutable tree from such nodes, answers geometric
// queries about it, and rasterizes it with a software compositor.
//
// # Quick Start
//
//	import "github.com/gogpu/rtree"
//
//	f, _ := os.Open("drawing.svg")
//	t, err := rtree.Import(f, rtree.DefaultOptions())
//	if err != nil {
//	    log.Fatal(rtree.StatusOf(err), err)
//	}
//
//	img, err := rtree.RenderImage(t, rtree.Identity(), 512, 512)
//
// Import reads the normalized SVG dialect written by Export. Trees can
// also be built directly with the constructors of package tree.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Tree, Options, Render, Import, Export, Status
//   - tree: node types, construction and queries
//   - render: the compositor writing into a Pixmap
//   - Internal: geom (affine algebra), path (flattening, bounds, dashes),
//     stroke (outline expansion), raster (coverage), paint (shaders),
//     blend (layers and compositing), normsvg (the SVG dialect)
//
// # Thread Safety
//
// A Tree is immutable after construction. Any number of goroutines may
// query and render it at once, each into its own buffer.
//
// # Logging
//
// rtree is silent by default. Use SetLogger or, in command-line tools,
// InitLog to enable output.
package rtree
