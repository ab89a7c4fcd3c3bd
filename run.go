package heritage

import "context"

// Discoverer determines the highest record ID in the register.
type Discoverer interface {
	// DiscoverMaxID returns the largest record ID linked from the index.
	// It returns 1 when the index links to no records. Errors carry the
	// EDISCOVERY code.
	DiscoverMaxID(ctx context.Context) (int, error)
}

// Limiter paces requests to the register.
type Limiter interface {
	// Wait blocks until a request may be made.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// Inspector receives every fetched response in diagnostic mode, whatever
// the parse outcome. rec is nil and err is set when the record failed.
type Inspector interface {
	Inspect(id int, resp *Response, rec *Record, err error)
}

// Outcome is the result of processing one record ID.
type Outcome struct {
	ID     int
	Record *Record
	Err    error
}

// OK reports whether the record was produced.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Record != nil
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Total     int // IDs in the run
	Succeeded int
	Failed    int
	Skipped   int // IDs not dispatched, or not written after the run stopped
}
