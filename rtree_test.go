package rtree

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rtree/internal/normsvg"
	"github.com/gogpu/rtree/render"
	"github.com/gogpu/rtree/tree"
)

var red = tree.Color{R: 255, A: 255}

func rectSegments(x, y, w, h float32) []tree.Segment {
	return []tree.Segment{
		tree.MoveTo(x, y),
		tree.LineTo(x+w, y),
		tree.LineTo(x+w, y+h),
		tree.LineTo(x, y+h),
		tree.Close(),
	}
}

// redSquare is a 4×4 document covered by an opaque red square.
func redSquare(t *testing.T) *Tree {
	t.Helper()
	root := tree.NewGroup("", tree.Identity(), []tree.Node{
		tree.NewPath("sq", tree.Identity(), rectSegments(0, 0, 4, 4),
			tree.WithFill(tree.NewFill(red, 1, tree.FillRuleNonZero))),
	})
	tr, err := tree.New(Size{W: 4, H: 4}, root, tree.Options{})
	require.NoError(t, err)
	return tr
}

func TestRenderIntoBuffer(t *testing.T) {
	tr := redSquare(t)
	pix := make([]byte, 4*4*4)
	require.NoError(t, Render(tr, Identity(), 4, 4, pix))
	for i := 0; i < len(pix); i += 4 {
		assert.Equal(t, []byte{255, 0, 0, 255}, pix[i:i+4], "pixel %d", i/4)
	}
}

func TestRenderRejectsBadBuffer(t *testing.T) {
	tr := redSquare(t)
	pix := make([]byte, 10)
	err := Render(tr, Identity(), 4, 4, pix)
	assert.ErrorIs(t, err, render.ErrInvalidTarget)
	assert.Equal(t, make([]byte, 10), pix)

	err = Render(tr, Identity(), 0, 4, nil)
	assert.ErrorIs(t, err, render.ErrInvalidTarget)

	_, err = RenderImage(tr, Identity(), -1, 1)
	assert.ErrorIs(t, err, render.ErrInvalidTarget)
}

func TestRenderNodeWrapper(t *testing.T) {
	tr := redSquare(t)
	pix := make([]byte, 8*8*4)
	require.NoError(t, RenderNode(tr, "sq", tree.Translate(4, 4), 8, 8, pix))

	at := func(x, y int) []byte { return pix[(y*8+x)*4 : (y*8+x)*4+4] }
	assert.Equal(t, []byte{0, 0, 0, 0}, at(1, 1))
	assert.Equal(t, []byte{255, 0, 0, 255}, at(5, 5))

	err := RenderNode(tr, "missing", Identity(), 8, 8, pix)
	assert.ErrorIs(t, err, render.ErrNodeNotFound)
}

func TestRenderImageFit(t *testing.T) {
	tr := redSquare(t)
	img, err := RenderImage(tr, FitTransform(tr.Size(), 8, 16), 8, 16)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Rect.Dx())

	r, _, _, a := img.At(7, 7).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
	_, _, _, a = img.At(4, 12).RGBA()
	assert.Zero(t, a)
}

func TestImportExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(redSquare(t), &buf))

	got, err := Import(&buf, DefaultOptions())
	require.NoError(t, err)
	bb, ok := got.NodeBBox("sq")
	require.True(t, ok)
	assert.Equal(t, Rect{W: 4, H: 4}, bb)
}

func TestImportAppliesRenderingDefaults(t *testing.T) {
	doc := `<svg width="4" height="4"><g><path id="p" d="M0 0 L4 0 L4 4 Z" fill="#000000"/></g></svg>`
	opts := DefaultOptions()
	opts.ShapeRendering = tree.ShapeRenderingCrispEdges

	got, err := Import(bytes.NewReader([]byte(doc)), opts)
	require.NoError(t, err)
	n, ok := got.NodeByID("p")
	require.True(t, ok)
	assert.Equal(t, tree.ShapeRenderingCrispEdges, n.(*tree.Path).ShapeRendering())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestStatusOf(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write([]byte("<svg"))
	require.NoError(t, zw.Close())
	truncated := gz.Bytes()[:gz.Len()-4]

	many := []byte(`<svg width="1" height="1"><g><g/><g/><g/></g></svg>`)
	limited := DefaultOptions()
	limited.ElementsLimit = 2

	tests := []struct {
		name string
		err  func() error
		want Status
	}{
		{"ok", func() error { return nil }, StatusOK},
		{"utf8", func() error {
			_, err := Import(bytes.NewReader([]byte{0xff, 0xfe}), DefaultOptions())
			return err
		}, StatusNotAnUTF8Str},
		{"read", func() error {
			_, err := Import(failingReader{}, DefaultOptions())
			return err
		}, StatusFileOpenFailed},
		{"gzip", func() error {
			_, err := Import(bytes.NewReader(truncated), DefaultOptions())
			return err
		}, StatusMalformedGzip},
		{"limit", func() error {
			_, err := Import(bytes.NewReader(many), limited)
			return err
		}, StatusElementsLimitReached},
		{"size", func() error {
			_, err := Import(bytes.NewReader([]byte(`<svg width="-1" height="1"/>`)), DefaultOptions())
			return err
		}, StatusInvalidSize},
		{"parse", func() error {
			_, err := Import(bytes.NewReader([]byte(`<svg width="1"`)), DefaultOptions())
			return err
		}, StatusParsingFailed},
		{"wrapped", func() error { return fmt.Errorf("outer: %w", normsvg.ErrNotUTF8) }, StatusNotAnUTF8Str},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err()))
		})
	}
	assert.Equal(t, "elements limit reached", StatusElementsLimitReached.String())
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, float32(96), o.DPI)
	assert.Equal(t, "Times New Roman", o.FontFamily)
	assert.Equal(t, float32(12), o.FontSize)
	assert.Equal(t, []string{"en"}, o.Languages)
	assert.Equal(t, tree.ShapeRenderingGeometricPrecision, o.ShapeRendering)
	assert.Equal(t, TextRenderingOptimizeLegibility, o.TextRendering)
	assert.Equal(t, tree.ImageRenderingOptimizeQuality, o.ImageRendering)
	assert.Equal(t, tree.DefaultElementsLimit, o.TreeOptions().ElementsLimit)
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "opts.toml")
	data := `
dpi = 72.0
font_family = "Noto Sans"
languages = ["de", "en"]
shape_rendering = "crispEdges"
text_rendering = "geometricPrecision"
image_rendering = "optimizeSpeed"
`
	require.NoError(t, os.WriteFile(file, []byte(data), 0o600))

	o, err := LoadOptions(file)
	require.NoError(t, err)
	assert.Equal(t, float32(72), o.DPI)
	assert.Equal(t, "Noto Sans", o.FontFamily)
	assert.Equal(t, float32(12), o.FontSize, "unset keys keep defaults")
	assert.Equal(t, []string{"de", "en"}, o.Languages)
	assert.Equal(t, tree.ShapeRenderingCrispEdges, o.ShapeRendering)
	assert.Equal(t, TextRenderingGeometricPrecision, o.TextRendering)
	assert.Equal(t, tree.ImageRenderingOptimizeSpeed, o.ImageRendering)
}

func TestLoadOptionsErrors(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, StatusFileOpenFailed, StatusOf(err))

	_, err = ParseOptions([]byte(`colour = "red"`))
	assert.Error(t, err)

	_, err = ParseOptions([]byte(`shape_rendering = "blurry"`))
	assert.Error(t, err)

	_, err = ParseOptions([]byte(`dpi = -3.0`))
	assert.Error(t, err)
}
