package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/heritage"
)

// Ensure LoggingDiscoverer implements heritage.Discoverer.
var _ heritage.Discoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a Discoverer with logging.
type LoggingDiscoverer struct {
	next   heritage.Discoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next heritage.Discoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// DiscoverMaxID delegates to the wrapped discoverer and logs the result.
func (d *LoggingDiscoverer) DiscoverMaxID(ctx context.Context) (maxID int, err error) {
	defer func(begin time.Time) {
		d.logger.Info("discovery",
			"max_id", maxID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.DiscoverMaxID(ctx)
}
