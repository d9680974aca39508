package rtree

import (
	"log/slog"
	"os"
	"sync"

	"github.com/gogpu/rtree/internal/logging"
	"github.com/gogpu/rtree/render"
)

var logger logging.Slot

// SetLogger configures the logger for rtree and its sub-packages.
// By default rtree produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by rtree:
//   - [slog.LevelDebug]: per-call diagnostics (render sizes, node counts)
//   - [slog.LevelInfo]: document lifecycle (import, export)
//
// Example:
//
//	rtree.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	render.SetLogger(l)
}

// Logger returns the current logger used by rtree. It never returns nil.
func Logger() *slog.Logger {
	return logger.Load()
}

var initLogOnce sync.Once

// InitLog installs a text logger writing warnings and above to stderr.
// Only the first call has an effect. It is meant for command-line tools;
// libraries should call SetLogger instead.
func InitLog() {
	initLogOnce.Do(func() {
		SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))
	})
}
