package mock

import (
	"context"

	"github.com/fwojciec/heritage"
)

var _ heritage.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of heritage.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
