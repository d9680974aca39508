// Package logging holds the silent-by-default slog plumbing shared by rtree
// and its sub-packages.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false so callers skip
// formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// Nop returns the shared logger that discards all output.
func Nop() *slog.Logger { return nop }

// Slot is a logger that can be swapped while other goroutines log through
// it. The zero value holds Nop.
type Slot struct {
	p atomic.Pointer[slog.Logger]
}

// Load returns the current logger. It never returns nil.
func (s *Slot) Load() *slog.Logger {
	if l := s.p.Load(); l != nil {
		return l
	}
	return nop
}

// Store replaces the logger. nil restores Nop.
func (s *Slot) Store(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	s.p.Store(l)
}
