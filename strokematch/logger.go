package strokematch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so message formatting is skipped entirely
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures logger for the package. By default nothing is logged.
// Pass nil to restore silent behavior. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: accepted search candidates
//   - [slog.LevelInfo]: search start and finish
//   - [slog.LevelWarn]: search cancelled
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns current logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
