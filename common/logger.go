package common

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// discardHandler drops every record. Enabled reports false so callers skip formatting.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(slog.New(discardHandler{}))
}

// Logger returns the logger shared by every oxy-bind package.
// The default logger discards all output until SetLogger is called.
//
// Returns:
//   - *slog.Logger: the active logger
func Logger() *slog.Logger {
	return activeLogger.Load()
}

// SetLogger replaces the shared logger. Passing nil restores the silent default.
// Safe to call while other goroutines are logging.
//
// Parameters:
//   - l: the logger to install, or nil to disable logging
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	activeLogger.Store(l)
}

// NewConsoleLogger builds a human-readable console logger backed by charmbracelet/log.
// Timestamps use RFC3339 and each record reports its caller.
//
// Parameters:
//   - w: destination writer (os.Stderr when nil)
//   - level: minimum level that is emitted
//   - prefix: optional prefix printed before every message
//
// Returns:
//   - *slog.Logger: a slog logger whose handler is the charmbracelet logger
func NewConsoleLogger(w io.Writer, level slog.Level, prefix string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
		Level:           consoleLevel(level),
	})
	return slog.New(handler)
}

// consoleLevel maps a slog level onto the nearest charmbracelet level.
func consoleLevel(level slog.Level) log.Level {
	switch {
	case level <= slog.LevelDebug:
		return log.DebugLevel
	case level <= slog.LevelInfo:
		return log.InfoLevel
	case level <= slog.LevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// ParseLevel converts a textual level ("debug", "info", "warn", "error") into a slog level.
// Unknown names fall back to info.
//
// Parameters:
//   - name: the level name, case-insensitive
//
// Returns:
//   - slog.Level: the parsed level
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
