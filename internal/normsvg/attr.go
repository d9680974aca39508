package normsvg

import (
	"encoding/hex"
	"fmt"
	stdstrconv "strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"

	"github.com/gogpu/rtree/tree"
)

// formatNum writes the shortest decimal that parses back to the same
// float32.
func formatNum(v float32) string {
	return stdstrconv.FormatFloat(float64(v), 'g', -1, 32)
}

func formatNums(vs ...float32) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatNum(v))
	}
	return sb.String()
}

func formatMatrix(ts tree.Transform) string {
	return "matrix(" + formatNums(ts.A, ts.B, ts.C, ts.D, ts.E, ts.F) + ")"
}

func formatColor(c tree.Color) string {
	b := []byte{c.R, c.G, c.B}
	if c.A != 255 {
		b = append(b, c.A)
	}
	return "#" + hex.EncodeToString(b)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

var attrUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

// numScanner reads whitespace or comma separated numbers.
type numScanner struct {
	b   []byte
	pos int
}

func (s *numScanner) skipSeparators() {
	for s.pos < len(s.b) && (parse.IsWhitespace(s.b[s.pos]) || s.b[s.pos] == ',') {
		s.pos++
	}
}

func (s *numScanner) done() bool {
	s.skipSeparators()
	return s.pos >= len(s.b)
}

// next returns the next number. The extent is found by the tdewolff
// scanner; the digits are then rounded once, directly to float32.
func (s *numScanner) next() (float32, error) {
	s.skipSeparators()
	_, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 {
		return 0, fmt.Errorf("%w: expected number at %q", ErrParsing, s.rest())
	}
	v, err := stdstrconv.ParseFloat(string(s.b[s.pos:s.pos+n]), 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParsing, err)
	}
	s.pos += n
	return float32(v), nil
}

func (s *numScanner) rest() string {
	const maxLen = 16
	r := s.b[s.pos:]
	if len(r) > maxLen {
		r = r[:maxLen]
	}
	return string(r)
}

func parseNum(v string) (float32, error) {
	s := numScanner{b: []byte(v)}
	f, err := s.next()
	if err != nil {
		return 0, err
	}
	if !s.done() {
		return 0, fmt.Errorf("%w: trailing data in number %q", ErrParsing, v)
	}
	return f, nil
}

func parseNums(v string, n int) ([]float32, error) {
	s := numScanner{b: []byte(v)}
	out := make([]float32, 0, max(n, 0))
	for !s.done() {
		f, err := s.next()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if n >= 0 && len(out) != n {
		return nil, fmt.Errorf("%w: want %d numbers in %q", ErrParsing, n, v)
	}
	return out, nil
}

func parseMatrix(v string) (tree.Transform, error) {
	v = strings.TrimSpace(v)
	inner, ok := strings.CutPrefix(v, "matrix(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return tree.Transform{}, fmt.Errorf("%w: transform %q", ErrParsing, v)
	}
	m, err := parseNums(strings.TrimSuffix(inner, ")"), 6)
	if err != nil {
		return tree.Transform{}, err
	}
	return tree.Transform{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]}, nil
}

func parseColor(v string) (tree.Color, error) {
	h, ok := strings.CutPrefix(v, "#")
	if !ok || (len(h) != 6 && len(h) != 8) {
		return tree.Color{}, fmt.Errorf("%w: color %q", ErrParsing, v)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return tree.Color{}, fmt.Errorf("%w: color %q", ErrParsing, v)
	}
	c := tree.Color{R: b[0], G: b[1], B: b[2], A: 255}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// parseURL returns the id of a url(#id) reference.
func parseURL(v string) (string, bool) {
	inner, ok := strings.CutPrefix(v, "url(#")
	if !ok || !strings.HasSuffix(inner, ")") {
		return "", false
	}
	return strings.TrimSuffix(inner, ")"), true
}

func formatPath(segs []tree.Segment) string {
	var sb strings.Builder
	for i, s := range segs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Kind.String())
		switch s.Kind {
		case tree.KindMoveTo, tree.KindLineTo:
			sb.WriteString(formatNums(s.X, s.Y))
		case tree.KindQuadTo:
			sb.WriteString(formatNums(s.X1, s.Y1, s.X, s.Y))
		case tree.KindCubicTo:
			sb.WriteString(formatNums(s.X1, s.Y1, s.X2, s.Y2, s.X, s.Y))
		}
	}
	return sb.String()
}

// parsePath reads absolute M, L, Q, C and Z commands. Implicit repeats of
// the previous command are accepted.
func parsePath(v string) ([]tree.Segment, error) {
	s := numScanner{b: []byte(v)}
	var segs []tree.Segment
	var cmd byte
	nums := func(n int) ([]float32, error) {
		out := make([]float32, n)
		for i := range out {
			f, err := s.next()
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	for !s.done() {
		if c := s.b[s.pos]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			cmd = c
			s.pos++
		} else if cmd == 0 || cmd == 'Z' {
			return nil, fmt.Errorf("%w: path data %q", ErrParsing, s.rest())
		}
		switch cmd {
		case 'M', 'L':
			p, err := nums(2)
			if err != nil {
				return nil, err
			}
			if cmd == 'M' {
				segs = append(segs, tree.MoveTo(p[0], p[1]))
				cmd = 'L'
			} else {
				segs = append(segs, tree.LineTo(p[0], p[1]))
			}
		case 'Q':
			p, err := nums(4)
			if err != nil {
				return nil, err
			}
			segs = append(segs, tree.QuadTo(p[0], p[1], p[2], p[3]))
		case 'C':
			p, err := nums(6)
			if err != nil {
				return nil, err
			}
			segs = append(segs, tree.CubicTo(p[0], p[1], p[2], p[3], p[4], p[5]))
		case 'Z':
			segs = append(segs, tree.Close())
		default:
			return nil, fmt.Errorf("%w: unsupported path command %q", ErrParsing, cmd)
		}
	}
	return segs, nil
}
