package tree

import "fmt"

var shapeRenderingText = [...]string{
	ShapeRenderingUnset:              "",
	ShapeRenderingOptimizeSpeed:      "optimizeSpeed",
	ShapeRenderingCrispEdges:         "crispEdges",
	ShapeRenderingGeometricPrecision: "geometricPrecision",
}

var imageRenderingText = [...]string{
	ImageRenderingUnset:           "",
	ImageRenderingOptimizeQuality: "optimizeQuality",
	ImageRenderingOptimizeSpeed:   "optimizeSpeed",
}

// String returns the SVG keyword, or "" when unset.
func (s ShapeRendering) String() string {
	if int(s) < len(shapeRenderingText) {
		return shapeRenderingText[s]
	}
	return fmt.Sprintf("ShapeRendering(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ShapeRendering) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The empty string means
// unset.
func (s *ShapeRendering) UnmarshalText(b []byte) error {
	for i, name := range shapeRenderingText {
		if name == string(b) {
			*s = ShapeRendering(i)
			return nil
		}
	}
	return fmt.Errorf("tree: unknown shape-rendering %q", b)
}

// String returns the SVG keyword, or "" when unset.
func (r ImageRendering) String() string {
	if int(r) < len(imageRenderingText) {
		return imageRenderingText[r]
	}
	return fmt.Sprintf("ImageRendering(%d)", uint8(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r ImageRendering) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The empty string means
// unset.
func (r *ImageRendering) UnmarshalText(b []byte) error {
	for i, name := range imageRenderingText {
		if name == string(b) {
			*r = ImageRendering(i)
			return nil
		}
	}
	return fmt.Errorf("tree: unknown image-rendering %q", b)
}
