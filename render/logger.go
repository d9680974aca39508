// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"log/slog"

	"github.com/gogpu/rtree/internal/logging"
)

var logger logging.Slot

// slogger returns the current package logger.
func slogger() *slog.Logger { return logger.Load() }

// SetLogger replaces the package logger. Pass nil to silence it.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
