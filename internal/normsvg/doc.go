// Package normsvg writes and reads the normalized SVG dialect of a render
// tree.
//
// The dialect is plain SVG with every property spelled out: absolute path
// commands, matrix transforms, user-space gradients and patterns, and all
// shared resources under a single defs element. Raster images are embedded
// as PNG data URIs and nested SVG images as base64 encoded normalized
// documents. Text is kept as its flattened outlines inside a text element
// carrying the layout box in a data-bbox attribute.
//
// Import reads exactly this dialect, optionally gzip-compressed. It is not a
// general SVG parser: styles, CSS, relative commands and use references
// are not supported.
package normsvg
