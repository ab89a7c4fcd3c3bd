package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/heritage"
)

// Ensure DiagnosticLogger implements heritage.DiagnosticSink.
var _ heritage.DiagnosticSink = (*DiagnosticLogger)(nil)

// DiagnosticLogger writes diagnostics to a logger: failures at WARN and
// notices at INFO.
type DiagnosticLogger struct {
	logger *slog.Logger
}

// NewDiagnosticLogger creates a new DiagnosticLogger.
func NewDiagnosticLogger(logger *slog.Logger) *DiagnosticLogger {
	return &DiagnosticLogger{logger: logger}
}

// Report logs d. slog handlers are safe for concurrent use.
func (l *DiagnosticLogger) Report(d heritage.Diagnostic) {
	level := slog.LevelInfo
	if d.Kind == heritage.DiagnosticFailure {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.Int("id", d.ID),
		slog.String("kind", d.Kind.String()),
	}
	if d.Code != "" {
		attrs = append(attrs, slog.String("code", d.Code))
	}
	if d.Label != "" {
		attrs = append(attrs, slog.String("label", d.Label))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.Any("err", d.Err))
	}
	l.logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}
