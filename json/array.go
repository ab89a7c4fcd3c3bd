// Package json streams records as a single JSON array.
package json

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/fwojciec/heritage"
)

var _ heritage.RecordWriter = (*ArrayWriter)(nil)

// ArrayWriter writes each record to the underlying writer as soon as it
// arrives, framed so the output is always one valid JSON array: the opening
// bracket is written lazily, a comma precedes every element but the first,
// and Close writes the closing bracket. Zero records produce "[]".
//
// ArrayWriter is safe for concurrent use.
type ArrayWriter struct {
	mu     sync.Mutex
	w      io.Writer
	indent string
	count  int
	opened bool
	closed bool
	err    error // first write failure; the array can no longer be framed
}

// Option configures an ArrayWriter.
type Option func(*ArrayWriter)

// WithIndent pretty-prints elements using indent for each nesting level.
func WithIndent(indent string) Option {
	return func(a *ArrayWriter) {
		a.indent = indent
	}
}

// NewArrayWriter creates an ArrayWriter that writes to w.
func NewArrayWriter(w io.Writer, opts ...Option) *ArrayWriter {
	a := &ArrayWriter{w: w}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WriteRecord validates r and appends it to the array.
func (a *ArrayWriter) WriteRecord(_ context.Context, r *heritage.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := a.marshal(r)
	if err != nil {
		return heritage.WrapError(heritage.EINTERNAL, err, "encode record %d", r.ID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return heritage.Errorf(heritage.EINVALID, "array writer is closed")
	}
	if a.err != nil {
		return a.err
	}
	if err := a.open(); err != nil {
		return err
	}

	sep := ","
	if a.count == 0 {
		sep = ""
	}
	if a.indent != "" {
		sep += "\n" + a.indent
	}
	if _, err := io.WriteString(a.w, sep); err != nil {
		return a.fail(err)
	}
	if _, err := a.w.Write(data); err != nil {
		return a.fail(err)
	}
	a.count++
	return nil
}

// Close terminates the array. It writes "[]" when no record was written.
// Calling Close more than once is a no-op. After a failed write Close writes
// nothing and returns that failure.
func (a *ArrayWriter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	if a.err != nil {
		return a.err
	}

	if err := a.open(); err != nil {
		return err
	}
	end := "]\n"
	if a.indent != "" && a.count > 0 {
		end = "\n]\n"
	}
	if _, err := io.WriteString(a.w, end); err != nil {
		return a.fail(err)
	}
	return nil
}

// Count returns the number of records written.
func (a *ArrayWriter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func (a *ArrayWriter) open() error {
	if a.opened {
		return nil
	}
	a.opened = true
	if _, err := io.WriteString(a.w, "["); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *ArrayWriter) fail(err error) error {
	a.err = heritage.WrapError(heritage.EINTERNAL, err, "write array")
	return a.err
}

func (a *ArrayWriter) marshal(r *heritage.Record) ([]byte, error) {
	if a.indent != "" {
		return json.MarshalIndent(r, a.indent, a.indent)
	}
	return json.Marshal(r)
}
