package mock

import (
	"context"

	"github.com/fwojciec/heritage"
)

var _ heritage.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of heritage.Discoverer.
type Discoverer struct {
	DiscoverMaxIDFn func(ctx context.Context) (int, error)
}

func (d *Discoverer) DiscoverMaxID(ctx context.Context) (int, error) {
	return d.DiscoverMaxIDFn(ctx)
}
