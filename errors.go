package rtree

import (
	"errors"
	"fmt"

	"github.com/gogpu/rtree/internal/normsvg"
	"github.com/gogpu/rtree/tree"
)

// ErrFileOpen is returned when a document or options source cannot be read.
var ErrFileOpen = errors.New("rtree: failed to read source")

// Status classifies construction errors.
type Status int

const (
	// StatusOK means no error.
	StatusOK Status = iota
	// StatusNotAnUTF8Str means the document is not valid UTF-8.
	StatusNotAnUTF8Str
	// StatusFileOpenFailed means the source could not be read.
	StatusFileOpenFailed
	// StatusMalformedGzip means a compressed document could not be inflated.
	StatusMalformedGzip
	// StatusElementsLimitReached means the document has too many elements.
	StatusElementsLimitReached
	// StatusInvalidSize means the document size is not positive and finite.
	StatusInvalidSize
	// StatusParsingFailed covers every other construction failure.
	StatusParsingFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotAnUTF8Str:
		return "not an UTF-8 string"
	case StatusFileOpenFailed:
		return "file open failed"
	case StatusMalformedGzip:
		return "malformed gzip"
	case StatusElementsLimitReached:
		return "elements limit reached"
	case StatusInvalidSize:
		return "invalid size"
	case StatusParsingFailed:
		return "parsing failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// StatusOf maps an error returned by this module to a status code.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, normsvg.ErrNotUTF8):
		return StatusNotAnUTF8Str
	case errors.Is(err, ErrFileOpen):
		return StatusFileOpenFailed
	case errors.Is(err, normsvg.ErrMalformedGzip):
		return StatusMalformedGzip
	case errors.Is(err, tree.ErrElementsLimitReached):
		return StatusElementsLimitReached
	case errors.Is(err, tree.ErrInvalidSize):
		return StatusInvalidSize
	default:
		return StatusParsingFailed
	}
}
