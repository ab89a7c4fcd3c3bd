package mock

import (
	"context"

	"github.com/fwojciec/heritage"
)

var _ heritage.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of heritage.RecordWriter.
// A nil function field is a no-op.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, r *heritage.Record) error
	CloseFn       func() error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, r *heritage.Record) error {
	if w.WriteRecordFn == nil {
		return nil
	}
	return w.WriteRecordFn(ctx, r)
}

func (w *RecordWriter) Close() error {
	if w.CloseFn == nil {
		return nil
	}
	return w.CloseFn()
}
