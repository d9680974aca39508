package normsvg

import (
	"errors"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"

	"github.com/gogpu/rtree/tree"
)

// element is a parsed XML element. Text content is dropped; the dialect
// carries everything in attributes.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
}

func (e *element) attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// parseDocument lexes data into an element tree, failing once more than
// limit elements have been seen.
func parseDocument(data []byte, limit int) (*element, error) {
	l := xml.NewLexer(parse.NewInputBytes(data))

	var root *element
	var stack []*element
	var open *element // element whose start tag is still collecting attributes
	count := 0

	pop := func() {
		stack = stack[:len(stack)-1]
	}

	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %v", ErrParsing, err)
			}
			if root == nil {
				return nil, fmt.Errorf("%w: no root element", ErrParsing)
			}
			if len(stack) > 0 {
				return nil, fmt.Errorf("%w: unclosed element <%s>", ErrParsing, stack[len(stack)-1].name)
			}
			return root, nil

		case xml.StartTagToken:
			count++
			if count > limit {
				return nil, fmt.Errorf("%w: more than %d elements", tree.ErrElementsLimitReached, limit)
			}
			el := &element{name: string(l.Text()), attrs: make(map[string]string)}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			case root == nil:
				root = el
			default:
				return nil, fmt.Errorf("%w: more than one root element", ErrParsing)
			}
			stack = append(stack, el)
			open = el

		case xml.StartTagPIToken:
			open = nil

		case xml.AttributeToken:
			if open != nil {
				open.attrs[string(l.Text())] = attrUnescaper.Replace(unquote(l.AttrVal()))
			}

		case xml.StartTagCloseToken:
			open = nil

		case xml.StartTagCloseVoidToken:
			open = nil
			if len(stack) > 0 {
				pop()
			}

		case xml.EndTagToken:
			name := string(l.Text())
			if len(stack) == 0 || stack[len(stack)-1].name != name {
				return nil, fmt.Errorf("%w: unexpected </%s>", ErrParsing, name)
			}
			pop()
		}
	}
}

func unquote(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		b = b[1 : len(b)-1]
	}
	return string(b)
}
