package mock

import (
	"context"

	"github.com/fwojciec/heritage"
)

var _ heritage.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of heritage.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*heritage.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*heritage.Response, error) {
	return f.FetchFn(ctx, url)
}

var _ heritage.RecordFetcher = (*RecordFetcher)(nil)

// RecordFetcher is a mock implementation of heritage.RecordFetcher.
type RecordFetcher struct {
	FetchRecordFn func(ctx context.Context, id int) (*heritage.Response, error)
}

func (f *RecordFetcher) FetchRecord(ctx context.Context, id int) (*heritage.Response, error) {
	return f.FetchRecordFn(ctx, id)
}
