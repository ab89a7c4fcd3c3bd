package scrape

import (
	"context"

	"github.com/fwojciec/heritage"
	"golang.org/x/time/rate"
)

// DefaultRate is the default request rate against the register, in requests
// per second.
const DefaultRate = 2.0

var _ heritage.Limiter = (*Limiter)(nil)

// Limiter paces requests with a token bucket shared by all workers.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter allowing rps requests per second with a burst
// of 1 (no bursting allowed). A non-positive rps disables limiting.
func NewLimiter(rps float64) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the rate limit allows a request.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
