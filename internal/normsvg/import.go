package normsvg

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // decoder for GIF data URIs
	_ "image/jpeg" // decoder for JPEG data URIs
	_ "image/png"  // decoder for PNG data URIs
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/rtree/internal/blend"
	"github.com/gogpu/rtree/internal/paint"
	"github.com/gogpu/rtree/tree"
)

// Import errors. Element limit violations wrap tree.ErrElementsLimitReached.
var (
	// ErrNotUTF8 is returned when the document is not valid UTF-8.
	ErrNotUTF8 = errors.New("normsvg: input is not valid UTF-8")

	// ErrMalformedGzip is returned for a gzip stream that cannot be read.
	ErrMalformedGzip = errors.New("normsvg: malformed gzip data")

	// ErrParsing is returned for XML or attribute syntax outside the
	// normalized dialect.
	ErrParsing = errors.New("normsvg: parsing failed")
)

var (
	spreadValues         = reverse(map[paint.Spread]string{paint.SpreadPad: "pad", paint.SpreadReflect: "reflect", paint.SpreadRepeat: "repeat"})
	lineCapValues        = reverse(lineCapNames)
	lineJoinValues       = reverse(lineJoinNames)
	fillRuleValues       = reverse(fillRuleNames)
	shapeRenderingValues = reverse(shapeRenderingNames)
	imageRenderingValues = reverse(imageRenderingNames)
	maskKindValues       = map[string]tree.MaskKind{"luminance": tree.MaskLuminance, "alpha": tree.MaskAlpha}
)

func reverse[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// Import reads a normalized document from r and builds a tree with opts.
func Import(r io.Reader, opts tree.Options) (*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("normsvg: read: %w", err)
	}
	return ImportBytes(data, opts)
}

// ImportBytes is like Import for an in-memory document.
func ImportBytes(data []byte, opts tree.Options) (*tree.Tree, error) {
	if isGzip(data) {
		var err error
		if data, err = gunzip(data); err != nil {
			return nil, err
		}
	}
	if !utf8.Valid(data) {
		return nil, ErrNotUTF8
	}
	if opts.ElementsLimit <= 0 {
		opts.ElementsLimit = tree.DefaultElementsLimit
	}

	doc, err := parseDocument(data, opts.ElementsLimit)
	if err != nil {
		return nil, err
	}
	if doc.name != "svg" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <svg>", ErrParsing, doc.name)
	}

	im := &importer{
		opts:   opts,
		defs:   make(map[string]*element),
		memo:   make(map[string]any),
		active: make(map[string]bool),
	}
	var rootEl *element
	for _, c := range doc.children {
		switch c.name {
		case "defs":
			for _, d := range c.children {
				if id, ok := d.attr("id"); ok {
					im.defs[id] = d
				}
			}
		case "g":
			if rootEl != nil {
				return nil, fmt.Errorf("%w: more than one root group", ErrParsing)
			}
			rootEl = c
		default:
			return nil, fmt.Errorf("%w: unexpected <%s> in <svg>", ErrParsing, c.name)
		}
	}

	var size tree.Size
	if size.W, err = requiredNum(doc, "width"); err != nil {
		return nil, err
	}
	if size.H, err = requiredNum(doc, "height"); err != nil {
		return nil, err
	}
	if v, ok := doc.attr("viewBox"); ok {
		vb, err := parseNums(v, 4)
		if err != nil {
			return nil, err
		}
		opts.ViewBox = tree.Rect{X: vb[0], Y: vb[1], W: vb[2], H: vb[3]}
	}

	var root *tree.Group
	if rootEl != nil {
		if root, err = im.group(rootEl); err != nil {
			return nil, err
		}
	}
	return tree.New(size, root, opts)
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// MaxGunzipSize caps the inflated size of a compressed document. Larger
// payloads are rejected as malformed before any parsing happens.
var MaxGunzipSize int64 = 256 << 20

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGzip, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, MaxGunzipSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGzip, err)
	}
	if int64(len(out)) > MaxGunzipSize {
		return nil, fmt.Errorf("%w: inflated size exceeds %d bytes", ErrMalformedGzip, MaxGunzipSize)
	}
	return out, nil
}

// importer turns elements into tree nodes. Definitions are built lazily on
// first reference and shared afterwards.
type importer struct {
	opts   tree.Options
	defs   map[string]*element
	memo   map[string]any
	active map[string]bool
}

func requiredNum(el *element, name string) (float32, error) {
	v, ok := el.attr(name)
	if !ok {
		return 0, fmt.Errorf("%w: <%s> lacks %s", ErrParsing, el.name, name)
	}
	return parseNum(v)
}

func optNum(el *element, name string, def float32) (float32, error) {
	v, ok := el.attr(name)
	if !ok {
		return def, nil
	}
	return parseNum(v)
}

func optMatrix(el *element, name string) (tree.Transform, error) {
	v, ok := el.attr(name)
	if !ok {
		return tree.Identity(), nil
	}
	return parseMatrix(v)
}

func optKeyword[K any](el *element, name string, values map[string]K, def K) (K, error) {
	v, ok := el.attr(name)
	if !ok {
		return def, nil
	}
	k, ok := values[v]
	if !ok {
		return def, fmt.Errorf("%w: %s=%q", ErrParsing, name, v)
	}
	return k, nil
}

func rectAttrs(el *element) (tree.Rect, error) {
	var r tree.Rect
	var err error
	if r.X, err = optNum(el, "x", 0); err != nil {
		return r, err
	}
	if r.Y, err = optNum(el, "y", 0); err != nil {
		return r, err
	}
	if r.W, err = requiredNum(el, "width"); err != nil {
		return r, err
	}
	if r.H, err = requiredNum(el, "height"); err != nil {
		return r, err
	}
	return r, nil
}

// def resolves a url(#id) reference.
func (im *importer) def(ref string) (any, error) {
	id, ok := parseURL(ref)
	if !ok {
		return nil, fmt.Errorf("%w: reference %q", ErrParsing, ref)
	}
	if v, ok := im.memo[id]; ok {
		return v, nil
	}
	el, ok := im.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reference %q", ErrParsing, id)
	}
	if im.active[id] {
		return nil, fmt.Errorf("%w: reference cycle through %q", ErrParsing, id)
	}
	im.active[id] = true
	defer delete(im.active, id)

	var v any
	var err error
	switch el.name {
	case "linearGradient":
		v, err = im.linearGradient(id, el)
	case "radialGradient":
		v, err = im.radialGradient(id, el)
	case "pattern":
		v, err = im.pattern(id, el)
	case "clipPath":
		v, err = im.clipPath(id, el)
	case "mask":
		v, err = im.mask(id, el)
	default:
		err = fmt.Errorf("%w: unsupported definition <%s>", ErrParsing, el.name)
	}
	if err != nil {
		return nil, err
	}
	im.memo[id] = v
	return v, nil
}

func (im *importer) clipRef(el *element, name string) (*tree.ClipPath, error) {
	v, ok := el.attr(name)
	if !ok {
		return nil, nil
	}
	d, err := im.def(v)
	if err != nil {
		return nil, err
	}
	cp, ok := d.(*tree.ClipPath)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q is not a clip path", ErrParsing, name, v)
	}
	return cp, nil
}

func (im *importer) maskRef(el *element, name string) (*tree.Mask, error) {
	v, ok := el.attr(name)
	if !ok {
		return nil, nil
	}
	d, err := im.def(v)
	if err != nil {
		return nil, err
	}
	m, ok := d.(*tree.Mask)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q is not a mask", ErrParsing, name, v)
	}
	return m, nil
}

// paint resolves a fill or stroke value. "none" and a missing attribute
// yield nil.
func (im *importer) paint(el *element, name string) (tree.Paint, error) {
	v, ok := el.attr(name)
	if !ok || v == "none" {
		return nil, nil
	}
	if strings.HasPrefix(v, "#") {
		return parseColor(v)
	}
	d, err := im.def(v)
	if err != nil {
		return nil, err
	}
	switch p := d.(type) {
	case *tree.LinearGradient:
		return p, nil
	case *tree.RadialGradient:
		return p, nil
	case *tree.Pattern:
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s=%q is not a paint server", ErrParsing, name, v)
}

func (im *importer) stops(el *element) ([]tree.Stop, error) {
	var stops []tree.Stop
	for _, c := range el.children {
		if c.name != "stop" {
			return nil, fmt.Errorf("%w: unexpected <%s> in gradient", ErrParsing, c.name)
		}
		off, err := requiredNum(c, "offset")
		if err != nil {
			return nil, err
		}
		col := tree.Black
		if v, ok := c.attr("stop-color"); ok {
			if col, err = parseColor(v); err != nil {
				return nil, err
			}
		}
		stops = append(stops, tree.Stop{Offset: off, Color: col})
	}
	return stops, nil
}

func (im *importer) gradientCommon(el *element) (tree.Transform, tree.SpreadMethod, []tree.Stop, error) {
	ts, err := optMatrix(el, "gradientTransform")
	if err != nil {
		return ts, 0, nil, err
	}
	spread, err := optKeyword(el, "spreadMethod", spreadValues, paint.SpreadPad)
	if err != nil {
		return ts, 0, nil, err
	}
	stops, err := im.stops(el)
	return ts, spread, stops, err
}

func (im *importer) linearGradient(id string, el *element) (*tree.LinearGradient, error) {
	var p [4]float32
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		v, err := requiredNum(el, name)
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	ts, spread, stops, err := im.gradientCommon(el)
	if err != nil {
		return nil, err
	}
	return tree.NewLinearGradient(id, p[0], p[1], p[2], p[3], ts, spread, stops), nil
}

func (im *importer) radialGradient(id string, el *element) (*tree.RadialGradient, error) {
	var p [3]float32
	for i, name := range []string{"cx", "cy", "r"} {
		v, err := requiredNum(el, name)
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	fx, err := optNum(el, "fx", p[0])
	if err != nil {
		return nil, err
	}
	fy, err := optNum(el, "fy", p[1])
	if err != nil {
		return nil, err
	}
	ts, spread, stops, err := im.gradientCommon(el)
	if err != nil {
		return nil, err
	}
	return tree.NewRadialGradient(id, p[0], p[1], p[2], fx, fy, ts, spread, stops), nil
}

// content returns the single group holding a definition's content.
func (im *importer) content(el *element) (*tree.Group, error) {
	var root *tree.Group
	for _, c := range el.children {
		if c.name != "g" || root != nil {
			return nil, fmt.Errorf("%w: <%s> must hold exactly one group", ErrParsing, el.name)
		}
		g, err := im.group(c)
		if err != nil {
			return nil, err
		}
		root = g
	}
	return root, nil
}

func (im *importer) pattern(id string, el *element) (*tree.Pattern, error) {
	r, err := rectAttrs(el)
	if err != nil {
		return nil, err
	}
	ts, err := optMatrix(el, "patternTransform")
	if err != nil {
		return nil, err
	}
	root, err := im.content(el)
	if err != nil {
		return nil, err
	}
	return tree.NewPattern(id, r, ts, root), nil
}

func (im *importer) clipPath(id string, el *element) (*tree.ClipPath, error) {
	ts, err := optMatrix(el, "transform")
	if err != nil {
		return nil, err
	}
	nested, err := im.clipRef(el, "clip-path")
	if err != nil {
		return nil, err
	}
	root, err := im.content(el)
	if err != nil {
		return nil, err
	}
	return tree.NewClipPath(id, ts, root, nested), nil
}

func (im *importer) mask(id string, el *element) (*tree.Mask, error) {
	r, err := rectAttrs(el)
	if err != nil {
		return nil, err
	}
	kind, err := optKeyword(el, "mask-type", maskKindValues, tree.MaskLuminance)
	if err != nil {
		return nil, err
	}
	nested, err := im.maskRef(el, "mask")
	if err != nil {
		return nil, err
	}
	root, err := im.content(el)
	if err != nil {
		return nil, err
	}
	return tree.NewMask(id, r, kind, root, nested), nil
}

func (im *importer) node(el *element) (tree.Node, error) {
	switch el.name {
	case "g":
		return im.group(el)
	case "path":
		return im.path(el)
	case "image":
		return im.image(el)
	case "text":
		return im.text(el)
	}
	return nil, fmt.Errorf("%w: unexpected <%s>", ErrParsing, el.name)
}

func (im *importer) group(el *element) (*tree.Group, error) {
	ts, err := optMatrix(el, "transform")
	if err != nil {
		return nil, err
	}
	opacity, err := optNum(el, "opacity", 1)
	if err != nil {
		return nil, err
	}
	opts := []tree.GroupOption{tree.WithOpacity(opacity)}
	if v, ok := el.attr("mix-blend-mode"); ok {
		mode, ok := blend.ParseBlendMode(v)
		if !ok {
			return nil, fmt.Errorf("%w: mix-blend-mode=%q", ErrParsing, v)
		}
		opts = append(opts, tree.WithBlendMode(mode))
	}
	if v, _ := el.attr("isolation"); v == "isolate" {
		opts = append(opts, tree.WithIsolate(true))
	}
	cp, err := im.clipRef(el, "clip-path")
	if err != nil {
		return nil, err
	}
	if cp != nil {
		opts = append(opts, tree.WithClipPath(cp))
	}
	m, err := im.maskRef(el, "mask")
	if err != nil {
		return nil, err
	}
	if m != nil {
		opts = append(opts, tree.WithMask(m))
	}

	children := make([]tree.Node, 0, len(el.children))
	for _, c := range el.children {
		n, err := im.node(c)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	id, _ := el.attr("id")
	return tree.NewGroup(id, ts, children, opts...), nil
}

func visible(el *element) bool {
	v, _ := el.attr("visibility")
	return v != "hidden" && v != "collapse"
}

func (im *importer) path(el *element) (*tree.Path, error) {
	ts, err := optMatrix(el, "transform")
	if err != nil {
		return nil, err
	}
	d, _ := el.attr("d")
	segs, err := parsePath(d)
	if err != nil {
		return nil, err
	}
	opts := []tree.PathOption{tree.WithPathVisibility(visible(el))}

	rendering, err := optKeyword(el, "shape-rendering", shapeRenderingValues, tree.ShapeRenderingUnset)
	if err != nil {
		return nil, err
	}
	opts = append(opts, tree.WithShapeRendering(rendering))

	if f, err := im.fill(el); err != nil {
		return nil, err
	} else if f != nil {
		opts = append(opts, tree.WithFill(f))
	}
	if s, err := im.stroke(el); err != nil {
		return nil, err
	} else if s != nil {
		opts = append(opts, tree.WithStroke(s))
	}
	id, _ := el.attr("id")
	return tree.NewPath(id, ts, segs, opts...), nil
}

func (im *importer) fill(el *element) (*tree.Fill, error) {
	p, err := im.paint(el, "fill")
	if err != nil || p == nil {
		return nil, err
	}
	opacity, err := optNum(el, "fill-opacity", 1)
	if err != nil {
		return nil, err
	}
	rule, err := optKeyword(el, "fill-rule", fillRuleValues, tree.FillRuleNonZero)
	if err != nil {
		return nil, err
	}
	return tree.NewFill(p, opacity, rule), nil
}

func (im *importer) stroke(el *element) (*tree.Stroke, error) {
	p, err := im.paint(el, "stroke")
	if err != nil || p == nil {
		return nil, err
	}
	opacity, err := optNum(el, "stroke-opacity", 1)
	if err != nil {
		return nil, err
	}
	width, err := optNum(el, "stroke-width", 1)
	if err != nil {
		return nil, err
	}
	lineCap, err := optKeyword(el, "stroke-linecap", lineCapValues, tree.LineCapButt)
	if err != nil {
		return nil, err
	}
	join, err := optKeyword(el, "stroke-linejoin", lineJoinValues, tree.LineJoinMiter)
	if err != nil {
		return nil, err
	}
	limit, err := optNum(el, "stroke-miterlimit", 4)
	if err != nil {
		return nil, err
	}
	var dash []float32
	if v, ok := el.attr("stroke-dasharray"); ok && v != "none" {
		if dash, err = parseNums(v, -1); err != nil {
			return nil, err
		}
	}
	offset, err := optNum(el, "stroke-dashoffset", 0)
	if err != nil {
		return nil, err
	}
	return tree.NewStroke(p, opacity, width,
		tree.WithLineCap(lineCap),
		tree.WithLineJoin(join),
		tree.WithMiterLimit(limit),
		tree.WithDash(dash, offset),
	), nil
}

func (im *importer) image(el *element) (*tree.Image, error) {
	ts, err := optMatrix(el, "transform")
	if err != nil {
		return nil, err
	}
	var size tree.Size
	if size.W, err = requiredNum(el, "width"); err != nil {
		return nil, err
	}
	if size.H, err = requiredNum(el, "height"); err != nil {
		return nil, err
	}
	rendering, err := optKeyword(el, "image-rendering", imageRenderingValues, tree.ImageRenderingUnset)
	if err != nil {
		return nil, err
	}
	opts := []tree.ImageOption{
		tree.WithImageVisibility(visible(el)),
		tree.WithImageRendering(rendering),
	}
	id, _ := el.attr("id")

	href, ok := el.attr("xlink:href")
	if !ok {
		href, ok = el.attr("href")
	}
	if !ok {
		return tree.NewRasterImage(id, ts, size, tree.ImagePNG, nil, opts...), nil
	}
	mime, data, err := decodeDataURI(href)
	if err != nil {
		return nil, err
	}
	if mime == "image/svg+xml" {
		sub, err := ImportBytes(data, tree.Options{
			ShapeRendering: im.opts.ShapeRendering,
			ImageRendering: im.opts.ImageRendering,
			ElementsLimit:  im.opts.ElementsLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("nested image %q: %w", id, err)
		}
		return tree.NewSVGImage(id, ts, size, sub, opts...), nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: image %q: %v", ErrParsing, id, err)
	}
	kind := tree.ImagePNG
	switch format {
	case "jpeg":
		kind = tree.ImageJPEG
	case "gif":
		kind = tree.ImageGIF
	}
	return tree.NewRasterImage(id, ts, size, kind, img, opts...), nil
}

// decodeDataURI splits a base64 data URI into its media type and payload.
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: only data URIs are supported", ErrParsing)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data URI", ErrParsing)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URI is not base64", ErrParsing)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: data URI: %v", ErrParsing, err)
	}
	return mime, data, nil
}

func (im *importer) text(el *element) (*tree.Text, error) {
	ts, err := optMatrix(el, "transform")
	if err != nil {
		return nil, err
	}
	var bbox tree.Rect
	if v, ok := el.attr("data-bbox"); ok {
		b, err := parseNums(v, 4)
		if err != nil {
			return nil, err
		}
		bbox = tree.Rect{X: b[0], Y: b[1], W: b[2], H: b[3]}
	}
	flattened, err := im.content(el)
	if err != nil {
		return nil, err
	}
	id, _ := el.attr("id")
	return tree.NewText(id, ts, bbox, flattened), nil
}
