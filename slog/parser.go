package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/heritage"
)

// Ensure LoggingParser implements heritage.RecordParser.
var _ heritage.RecordParser = (*LoggingParser)(nil)

// LoggingParser wraps a RecordParser with debug logging.
type LoggingParser struct {
	next   heritage.RecordParser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next heritage.RecordParser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// ParseRecord delegates to the wrapped parser and logs the outcome.
func (p *LoggingParser) ParseRecord(id int, body []byte) (rec *heritage.Record, diags []heritage.Diagnostic, err error) {
	defer func(begin time.Time) {
		fields := 0
		if rec != nil {
			fields = len(rec.Fields)
		}
		p.logger.Debug("parse",
			"id", id,
			"fields", fields,
			"diagnostics", len(diags),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseRecord(id, body)
}
