// Package slog provides logging decorators for heritage services.
package slog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/heritage"
)

// Ensure the decorators implement their interfaces.
var (
	_ heritage.Fetcher       = (*LoggingFetcher)(nil)
	_ heritage.RecordFetcher = (*LoggingRecordFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   heritage.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next heritage.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *heritage.Response, err error) {
	defer func(begin time.Time) {
		f.logger.LogAttrs(ctx, slog.LevelDebug, "fetch",
			append([]slog.Attr{slog.String("url", url)}, responseAttrs(resp, err, begin)...)...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// LoggingRecordFetcher wraps a RecordFetcher with debug logging.
type LoggingRecordFetcher struct {
	next   heritage.RecordFetcher
	logger *slog.Logger
}

// NewLoggingRecordFetcher creates a new LoggingRecordFetcher.
func NewLoggingRecordFetcher(next heritage.RecordFetcher, logger *slog.Logger) *LoggingRecordFetcher {
	return &LoggingRecordFetcher{next: next, logger: logger}
}

// FetchRecord delegates to the wrapped fetcher and logs the request.
func (f *LoggingRecordFetcher) FetchRecord(ctx context.Context, id int) (resp *heritage.Response, err error) {
	defer func(begin time.Time) {
		f.logger.LogAttrs(ctx, slog.LevelDebug, "fetch record",
			append([]slog.Attr{slog.Int("id", id)}, responseAttrs(resp, err, begin)...)...)
	}(time.Now())
	return f.next.FetchRecord(ctx, id)
}

// responseAttrs describes a fetch result. Failed fetches that still carry a
// response report its status and size.
func responseAttrs(resp *heritage.Response, err error, begin time.Time) []slog.Attr {
	if resp == nil {
		resp = heritage.ResponseFromError(err)
	}
	attrs := make([]slog.Attr, 0, 5)
	if resp != nil {
		attrs = append(attrs,
			slog.Int("status", resp.StatusCode),
			slog.Int("bytes", len(resp.Body)),
			slog.String("body_hash", fmt.Sprintf("%016x", xxhash.Sum64(resp.Body))),
		)
	}
	attrs = append(attrs, slog.Duration("duration", time.Since(begin)))
	if err != nil {
		attrs = append(attrs, slog.Any("err", err))
	}
	return attrs
}
