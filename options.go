package rtree

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/rtree/tree"
)

// TextRendering is the text-rendering hint handed to normalizers that
// convert text to paths.
type TextRendering uint8

const (
	// TextRenderingOptimizeSpeed favours speed over legibility.
	TextRenderingOptimizeSpeed TextRendering = iota
	// TextRenderingOptimizeLegibility favours legibility.
	TextRenderingOptimizeLegibility
	// TextRenderingGeometricPrecision favours exact glyph outlines.
	TextRenderingGeometricPrecision
)

var textRenderingText = [...]string{
	TextRenderingOptimizeSpeed:      "optimizeSpeed",
	TextRenderingOptimizeLegibility: "optimizeLegibility",
	TextRenderingGeometricPrecision: "geometricPrecision",
}

// String returns the SVG keyword.
func (r TextRendering) String() string {
	if int(r) < len(textRenderingText) {
		return textRenderingText[r]
	}
	return fmt.Sprintf("TextRendering(%d)", uint8(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r TextRendering) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *TextRendering) UnmarshalText(b []byte) error {
	for i, name := range textRenderingText {
		if name == string(b) {
			*r = TextRendering(i)
			return nil
		}
	}
	return fmt.Errorf("rtree: unknown text-rendering %q", b)
}

// Options configures document import.
//
// The font and resource fields describe the environment a normalizer
// resolves text and relative references in. The renderer itself only
// consumes the rendering defaults and the element limit.
type Options struct {
	// ResourcesDir is the base directory for relative image references.
	ResourcesDir string `toml:"resources_dir"`

	// DPI converts absolute units to user units. Default 96.
	DPI float32 `toml:"dpi"`

	// FontFamily and FontSize are the text defaults.
	// Default "Times New Roman" at 12.
	FontFamily string  `toml:"font_family"`
	FontSize   float32 `toml:"font_size"`

	// Generic family substitutions.
	SerifFamily     string `toml:"serif_family"`
	SansSerifFamily string `toml:"sans_serif_family"`
	CursiveFamily   string `toml:"cursive_family"`
	FantasyFamily   string `toml:"fantasy_family"`
	MonospaceFamily string `toml:"monospace_family"`

	// Languages is matched against systemLanguage. Default ["en"].
	Languages []string `toml:"languages"`

	ShapeRendering tree.ShapeRendering `toml:"shape_rendering"`
	TextRendering  TextRendering       `toml:"text_rendering"`
	ImageRendering tree.ImageRendering `toml:"image_rendering"`

	// Stylesheet is extra CSS applied before document styles.
	Stylesheet string `toml:"stylesheet"`

	// ElementsLimit caps the number of elements in a document.
	// Default tree.DefaultElementsLimit.
	ElementsLimit int `toml:"elements_limit"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		DPI:             96,
		FontFamily:      "Times New Roman",
		FontSize:        12,
		SerifFamily:     "Times New Roman",
		SansSerifFamily: "Arial",
		CursiveFamily:   "Comic Sans MS",
		FantasyFamily:   "Impact",
		MonospaceFamily: "Courier New",
		Languages:       []string{"en"},
		ShapeRendering:  tree.ShapeRenderingGeometricPrecision,
		TextRendering:   TextRenderingOptimizeLegibility,
		ImageRendering:  tree.ImageRenderingOptimizeQuality,
		ElementsLimit:   tree.DefaultElementsLimit,
	}
}

// TreeOptions returns the subset consumed by tree.New.
func (o Options) TreeOptions() tree.Options {
	return tree.Options{
		ShapeRendering: o.ShapeRendering,
		ImageRendering: o.ImageRendering,
		ElementsLimit:  o.ElementsLimit,
	}
}

// LoadOptions reads a TOML file on top of DefaultOptions. Unknown keys are
// rejected.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrFileOpen, err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes TOML data on top of DefaultOptions.
func ParseOptions(data []byte) (Options, error) {
	o := DefaultOptions()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return Options{}, fmt.Errorf("rtree: options: %w", err)
	}
	if o.DPI <= 0 || o.FontSize <= 0 {
		return Options{}, fmt.Errorf("rtree: options: dpi and font_size must be positive")
	}
	return o, nil
}
