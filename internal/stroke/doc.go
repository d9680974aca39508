// Package stroke converts stroked polylines into filled outlines.
//
// The expander does not trace a single outline around the stroke. It emits a
// set of convex pieces, all with the same orientation, whose nonzero union is
// the stroke area:
//   - one quad per segment, offset by width/2 on both sides
//   - a wedge on the outer side of every interior vertex (the join)
//   - a cap at each end of an open subpath
//
// Overlaps between pieces add winding rather than cancel it, so any nonzero
// rasterizer fills the exact union. This sidesteps the self-intersection
// handling that a traced outline needs for short segments and sharp turns.
//
// # Line Caps
//
//   - LineCapButt: flat end exactly at the endpoint
//   - LineCapRound: semicircle with radius width/2
//   - LineCapSquare: half square extending width/2 beyond the endpoint
//
// A subpath of zero length draws a dot for round caps and an axis-aligned
// square for square caps. Butt caps draw nothing.
//
// # Line Joins
//
//   - LineJoinMiter: sharp corner, replaced by a bevel past the miter limit
//   - LineJoinMiterClip: sharp corner, clipped at miterLimit*width/2 from the vertex
//   - LineJoinRound: circular arc
//   - LineJoinBevel: straight chamfer
//
// # Usage
//
//	style := stroke.Stroke{
//	    Width:      2.0,
//	    Cap:        stroke.LineCapRound,
//	    Join:       stroke.LineJoinMiter,
//	    MiterLimit: 4.0,
//	}
//
//	expander := stroke.NewStrokeExpander(style)
//	expander.SetTolerance(0.1) // optional: arc approximation
//
//	polygons := expander.Expand(polylines)
package stroke
