package websurface

import (
	"log/slog"

	"github.com/gogpu/websurface/internal/logging"
)

// SetLogger configures the logger for websurface and all its sub-packages.
// By default, websurface produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by websurface:
//   - [slog.LevelDebug]: framebuffer allocation, frame capture, event routing
//   - [slog.LevelInfo]: session start and navigation
//   - [slog.LevelWarn]: recoverable failures (incomplete framebuffer, bad URL)
//   - [slog.LevelError]: poisoned shared state
//
// Example:
//
//	websurface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by websurface.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.L()
}
