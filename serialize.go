package rtree

import (
	"fmt"
	"io"

	"github.com/gogpu/rtree/internal/normsvg"
)

// Import reads a normalized SVG document, optionally gzip-compressed, and
// builds a tree from it.
func Import(r io.Reader, opts Options) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOpen, err)
	}
	t, err := normsvg.ImportBytes(data, opts.TreeOptions())
	if err != nil {
		return nil, err
	}
	Logger().Info("rtree: imported document", "bytes", len(data), "nodes", t.Len())
	return t, nil
}

// Export writes t as a normalized SVG document that Import reads back
// into an equivalent tree.
func Export(t *Tree, w io.Writer) error {
	if err := normsvg.Export(w, t); err != nil {
		return err
	}
	Logger().Info("rtree: exported document", "nodes", t.Len())
	return nil
}
