package normsvg

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"

	"github.com/gogpu/rtree/internal/raster"
	"github.com/gogpu/rtree/internal/stroke"
	"github.com/gogpu/rtree/tree"
)

var lineCapNames = map[tree.LineCap]string{
	stroke.LineCapButt:   "butt",
	stroke.LineCapRound:  "round",
	stroke.LineCapSquare: "square",
}

var lineJoinNames = map[tree.LineJoin]string{
	stroke.LineJoinMiter:     "miter",
	stroke.LineJoinMiterClip: "miter-clip",
	stroke.LineJoinRound:     "round",
	stroke.LineJoinBevel:     "bevel",
}

var fillRuleNames = map[tree.FillRule]string{
	raster.FillRuleNonZero: "nonzero",
	raster.FillRuleEvenOdd: "evenodd",
}

var shapeRenderingNames = map[tree.ShapeRendering]string{
	tree.ShapeRenderingOptimizeSpeed:      "optimizeSpeed",
	tree.ShapeRenderingCrispEdges:         "crispEdges",
	tree.ShapeRenderingGeometricPrecision: "geometricPrecision",
}

var imageRenderingNames = map[tree.ImageRendering]string{
	tree.ImageRenderingOptimizeQuality: "optimizeQuality",
	tree.ImageRenderingOptimizeSpeed:   "optimizeSpeed",
}

// Export writes t as a normalized SVG document.
func Export(w io.Writer, t *tree.Tree) error {
	e := &exporter{
		w:   bufio.NewWriter(w),
		ids: make(map[any]string),
		use: make(map[string]struct{}),
	}
	t.Walk(func(n tree.Node) bool {
		if id := n.ID(); id != "" {
			e.use[id] = struct{}{}
		}
		return true
	})
	e.collectGroup(t.Root())

	size, vb := t.Size(), t.ViewBox()
	e.raw(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"`)
	e.attr("width", formatNum(size.W))
	e.attr("height", formatNum(size.H))
	e.attr("viewBox", formatNums(vb.X, vb.Y, vb.W, vb.H))
	e.raw(">\n")
	if len(e.defs) > 0 {
		e.raw("<defs>\n")
		for _, d := range e.defs {
			e.writeDef(d)
		}
		e.raw("</defs>\n")
	}
	e.writeGroup(t.Root())
	e.raw("</svg>\n")

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// exporter writes one document. Write errors are sticky in bufio.Writer;
// encoding errors are kept in err.
type exporter struct {
	w    *bufio.Writer
	defs []any
	ids  map[any]string
	use  map[string]struct{}
	err  error
}

func (e *exporter) raw(s string) {
	_, _ = e.w.WriteString(s)
}

func (e *exporter) attr(name, value string) {
	e.raw(" ")
	e.raw(name)
	e.raw(`="`)
	e.raw(attrEscaper.Replace(value))
	e.raw(`"`)
}

func (e *exporter) optAttr(name, value string) {
	if value != "" {
		e.attr(name, value)
	}
}

// define registers a shared resource once and gives it a document-unique
// id, keeping its own id when possible.
func (e *exporter) define(def any, id string) bool {
	if _, ok := e.ids[def]; ok {
		return false
	}
	if _, taken := e.use[id]; id == "" || taken {
		for n := len(e.defs) + 1; ; n++ {
			id = fmt.Sprintf("def%d", n)
			if _, taken := e.use[id]; !taken {
				break
			}
		}
	}
	e.use[id] = struct{}{}
	e.ids[def] = id
	e.defs = append(e.defs, def)
	return true
}

func (e *exporter) ref(def any) string {
	return "url(#" + e.ids[def] + ")"
}

func (e *exporter) collectGroup(g *tree.Group) {
	if g == nil {
		return
	}
	for cp := g.ClipPath(); cp != nil; cp = cp.ClipPath() {
		if e.define(cp, cp.ID()) {
			e.collectGroup(cp.Root())
		}
	}
	for m := g.Mask(); m != nil; m = m.Mask() {
		if e.define(m, m.ID()) {
			e.collectGroup(m.Root())
		}
	}
	for _, c := range g.Children() {
		switch c := c.(type) {
		case *tree.Group:
			e.collectGroup(c)
		case *tree.Path:
			if f := c.Fill(); f != nil {
				e.collectPaint(f.Paint())
			}
			if s := c.Stroke(); s != nil {
				e.collectPaint(s.Paint())
			}
		case *tree.Text:
			e.collectGroup(c.Flattened())
		}
	}
}

func (e *exporter) collectPaint(p tree.Paint) {
	switch p := p.(type) {
	case *tree.LinearGradient:
		e.define(p, p.ID())
	case *tree.RadialGradient:
		e.define(p, p.ID())
	case *tree.Pattern:
		if e.define(p, p.ID()) {
			e.collectGroup(p.Root())
		}
	}
}

func (e *exporter) writeDef(def any) {
	id := e.ids[def]
	switch d := def.(type) {
	case *tree.LinearGradient:
		x1, y1, x2, y2 := d.Points()
		e.raw("<linearGradient")
		e.attr("id", id)
		e.attr("x1", formatNum(x1))
		e.attr("y1", formatNum(y1))
		e.attr("x2", formatNum(x2))
		e.attr("y2", formatNum(y2))
		e.writeGradientCommon(&d.BaseGradient)
		e.raw("</linearGradient>\n")
	case *tree.RadialGradient:
		cx, cy, r := d.Circle()
		fx, fy := d.Focus()
		e.raw("<radialGradient")
		e.attr("id", id)
		e.attr("cx", formatNum(cx))
		e.attr("cy", formatNum(cy))
		e.attr("r", formatNum(r))
		e.attr("fx", formatNum(fx))
		e.attr("fy", formatNum(fy))
		e.writeGradientCommon(&d.BaseGradient)
		e.raw("</radialGradient>\n")
	case *tree.Pattern:
		r := d.Rect()
		e.raw("<pattern")
		e.attr("id", id)
		e.attr("x", formatNum(r.X))
		e.attr("y", formatNum(r.Y))
		e.attr("width", formatNum(r.W))
		e.attr("height", formatNum(r.H))
		e.attr("patternUnits", "userSpaceOnUse")
		e.attr("patternTransform", formatMatrix(d.Transform()))
		e.raw(">\n")
		e.writeContent(d.Root())
		e.raw("</pattern>\n")
	case *tree.ClipPath:
		e.raw("<clipPath")
		e.attr("id", id)
		e.attr("clipPathUnits", "userSpaceOnUse")
		e.attr("transform", formatMatrix(d.Transform()))
		if n := d.ClipPath(); n != nil {
			e.attr("clip-path", e.ref(n))
		}
		e.raw(">\n")
		e.writeContent(d.Root())
		e.raw("</clipPath>\n")
	case *tree.Mask:
		r := d.Rect()
		e.raw("<mask")
		e.attr("id", id)
		e.attr("x", formatNum(r.X))
		e.attr("y", formatNum(r.Y))
		e.attr("width", formatNum(r.W))
		e.attr("height", formatNum(r.H))
		e.attr("maskUnits", "userSpaceOnUse")
		e.attr("maskContentUnits", "userSpaceOnUse")
		e.attr("mask-type", d.Kind().String())
		if n := d.Mask(); n != nil {
			e.attr("mask", e.ref(n))
		}
		e.raw(">\n")
		e.writeContent(d.Root())
		e.raw("</mask>\n")
	}
}

func (e *exporter) writeGradientCommon(g *tree.BaseGradient) {
	e.attr("gradientUnits", "userSpaceOnUse")
	e.attr("spreadMethod", g.Spread().String())
	e.attr("gradientTransform", formatMatrix(g.Transform()))
	e.raw(">\n")
	for _, s := range g.Stops() {
		e.raw("<stop")
		e.attr("offset", formatNum(s.Offset))
		e.attr("stop-color", formatColor(s.Color))
		e.raw("/>\n")
	}
}

// writeContent writes a definition's content root. A missing root is
// written as an empty group.
func (e *exporter) writeContent(g *tree.Group) {
	if g == nil {
		g = tree.NewGroup("", tree.Identity(), nil)
	}
	e.writeGroup(g)
}

func (e *exporter) writeNode(n tree.Node) {
	switch n := n.(type) {
	case *tree.Group:
		e.writeGroup(n)
	case *tree.Path:
		e.writePath(n)
	case *tree.Image:
		e.writeImage(n)
	case *tree.Text:
		e.writeText(n)
	}
}

func (e *exporter) writeGroup(g *tree.Group) {
	e.raw("<g")
	e.optAttr("id", g.ID())
	e.attr("transform", formatMatrix(g.Transform()))
	e.attr("opacity", formatNum(g.Opacity()))
	e.attr("mix-blend-mode", g.BlendMode().String())
	if g.Isolate() {
		e.attr("isolation", "isolate")
	} else {
		e.attr("isolation", "auto")
	}
	if cp := g.ClipPath(); cp != nil {
		e.attr("clip-path", e.ref(cp))
	}
	if m := g.Mask(); m != nil {
		e.attr("mask", e.ref(m))
	}
	if g.Len() == 0 {
		e.raw("/>\n")
		return
	}
	e.raw(">\n")
	for _, c := range g.Children() {
		e.writeNode(c)
	}
	e.raw("</g>\n")
}

func (e *exporter) paintValue(p tree.Paint) string {
	switch p := p.(type) {
	case tree.Color:
		return formatColor(p)
	case nil:
		return "none"
	default:
		return e.ref(p)
	}
}

func visibility(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}

func (e *exporter) writePath(p *tree.Path) {
	e.raw("<path")
	e.optAttr("id", p.ID())
	e.attr("transform", formatMatrix(p.Transform()))
	e.attr("visibility", visibility(p.IsVisible()))
	e.attr("shape-rendering", shapeRenderingNames[p.ShapeRendering()])
	if f := p.Fill(); f != nil {
		e.attr("fill", e.paintValue(f.Paint()))
		e.attr("fill-opacity", formatNum(f.Opacity()))
		e.attr("fill-rule", fillRuleNames[f.Rule()])
	} else {
		e.attr("fill", "none")
	}
	if s := p.Stroke(); s != nil {
		e.attr("stroke", e.paintValue(s.Paint()))
		e.attr("stroke-opacity", formatNum(s.Opacity()))
		e.attr("stroke-width", formatNum(s.Width()))
		e.attr("stroke-linecap", lineCapNames[s.LineCap()])
		e.attr("stroke-linejoin", lineJoinNames[s.LineJoin()])
		e.attr("stroke-miterlimit", formatNum(s.MiterLimit()))
		array, offset := s.Dash()
		if len(array) > 0 {
			e.attr("stroke-dasharray", formatNums(array...))
		} else {
			e.attr("stroke-dasharray", "none")
		}
		e.attr("stroke-dashoffset", formatNum(offset))
	} else {
		e.attr("stroke", "none")
	}
	e.attr("d", formatPath(p.Segments()))
	e.raw("/>\n")
}

func (e *exporter) writeImage(img *tree.Image) {
	href, err := imageHref(img)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return
	}
	size := img.Size()
	e.raw("<image")
	e.optAttr("id", img.ID())
	e.attr("transform", formatMatrix(img.Transform()))
	e.attr("visibility", visibility(img.IsVisible()))
	e.attr("width", formatNum(size.W))
	e.attr("height", formatNum(size.H))
	e.attr("preserveAspectRatio", "none")
	e.attr("image-rendering", imageRenderingNames[img.Rendering()])
	e.optAttr("xlink:href", href)
	e.raw("/>\n")
}

// imageHref encodes the payload as a data URI: PNG for raster images, a
// nested normalized document for SVG images.
func imageHref(img *tree.Image) (string, error) {
	var buf bytes.Buffer
	mime := "image/png"
	switch {
	case img.Kind() == tree.ImageSVG && img.SVG() != nil:
		mime = "image/svg+xml"
		if err := Export(&buf, img.SVG()); err != nil {
			return "", fmt.Errorf("normsvg: nested image %q: %w", img.ID(), err)
		}
	case img.Raster() != nil:
		if err := png.Encode(&buf, img.Raster()); err != nil {
			return "", fmt.Errorf("normsvg: encode image %q: %w", img.ID(), err)
		}
	default:
		return "", nil
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (e *exporter) writeText(t *tree.Text) {
	bb := t.TextBBox()
	e.raw("<text")
	e.optAttr("id", t.ID())
	e.attr("transform", formatMatrix(t.Transform()))
	e.attr("data-bbox", formatNums(bb.X, bb.Y, bb.W, bb.H))
	if t.Flattened() == nil {
		e.raw("/>\n")
		return
	}
	e.raw(">\n")
	e.writeGroup(t.Flattened())
	e.raw("</text>\n")
}
