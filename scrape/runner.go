// Package scrape drives a register run: it determines the ID set, fetches and
// parses each record through a bounded worker pool, and streams the results
// to a RecordWriter.
package scrape

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/fwojciec/heritage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runner orchestrates a scrape of the register.
type Runner struct {
	Discoverer  heritage.Discoverer
	Fetcher     heritage.RecordFetcher
	Parser      heritage.RecordParser
	Writer      heritage.RecordWriter
	Diagnostics heritage.DiagnosticSink
	Limiter     heritage.Limiter

	// Inspector, if set, receives every fetched response (diagnostic mode).
	Inspector heritage.Inspector

	// Progress, if set, receives events as the run proceeds.
	Progress ProgressFunc

	// Concurrency is the number of records processed at once.
	// Values below 1 mean sequential processing.
	Concurrency int

	// RunID identifies the run in the Summary. Defaults to a new UUID.
	RunID string

	// Shuffle reorders a discovered ID range before a sequential run.
	// Defaults to a random shuffle.
	Shuffle func(ids []int)
}

// result is what a worker hands to the collector.
type result struct {
	outcome heritage.Outcome
	resp    *heritage.Response
	diags   []heritage.Diagnostic
	skipped bool
}

// Run processes ids, or the whole register when ids is empty.
//
// Explicit IDs keep their order, with duplicates removed. A discovered range
// [1, max] is shuffled when running sequentially so that rate-sensitive
// failures surface early. Each ID is attempted once. Per-record failures are
// reported to Diagnostics and never stop the run.
//
// Run returns an error when discovery fails (nothing is written), when the
// Writer fails, or when ctx is canceled. In the last case no new IDs are
// dispatched, in-flight records finish and are written, and the returned
// Summary counts the rest as skipped.
//
// Run does not close the Writer.
func (r *Runner) Run(ctx context.Context, ids []int) (*heritage.Summary, error) {
	ids, err := r.resolveIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	summary := &heritage.Summary{
		RunID: runID,
		Total: len(ids),
	}
	r.progress(ProgressEvent{Type: ProgressStarted, Total: summary.Total})

	concurrency := max(r.Concurrency, 1)
	resultCh := make(chan result, concurrency)

	var stopped atomic.Bool
	var dispatched int
	go func() {
		defer close(resultCh)

		g := new(errgroup.Group)
		g.SetLimit(concurrency)
		for _, id := range ids {
			if ctx.Err() != nil || stopped.Load() {
				break
			}
			dispatched++
			g.Go(func() error {
				resultCh <- r.process(ctx, id)
				return nil
			})
		}
		_ = g.Wait()
	}()

	// Writes must land even after cancellation so partial output is kept.
	writeCtx := context.WithoutCancel(ctx)

	var completed int
	var writeErr error
	for res := range resultCh {
		if res.skipped {
			summary.Skipped++
			continue
		}
		completed++

		if r.Inspector != nil && res.resp != nil {
			r.Inspector.Inspect(res.outcome.ID, res.resp, res.outcome.Record, res.outcome.Err)
		}
		for _, d := range res.diags {
			r.report(d)
		}

		if !res.outcome.OK() {
			summary.Failed++
			r.report(heritage.FailureDiagnostic(res.outcome.ID, res.outcome.Err))
			r.progress(ProgressEvent{
				Type:      ProgressFailed,
				ID:        res.outcome.ID,
				Completed: completed,
				Total:     summary.Total,
				Error:     res.outcome.Err,
			})
			continue
		}

		if writeErr != nil {
			summary.Skipped++
			continue
		}
		if err := r.Writer.WriteRecord(writeCtx, res.outcome.Record); err != nil {
			writeErr = err
			stopped.Store(true)
			summary.Failed++
			continue
		}
		summary.Succeeded++
		r.progress(ProgressEvent{
			Type:      ProgressCompleted,
			ID:        res.outcome.ID,
			Completed: completed,
			Total:     summary.Total,
		})
	}

	// The dispatcher has exited once resultCh is closed.
	summary.Skipped += summary.Total - dispatched

	r.progress(ProgressEvent{
		Type:      ProgressFinished,
		Completed: completed,
		Total:     summary.Total,
	})

	if writeErr != nil {
		return summary, writeErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// resolveIDs returns the explicit IDs without duplicates, or the discovered
// range when ids is empty.
func (r *Runner) resolveIDs(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) > 0 {
		return uniqueIDs(ids)
	}

	if r.Discoverer == nil {
		return nil, heritage.Errorf(heritage.EINVALID, "no record IDs and no discoverer")
	}
	maxID, err := r.Discoverer.DiscoverMaxID(ctx)
	if err != nil {
		if heritage.ErrorCode(err) != heritage.EDISCOVERY {
			err = heritage.WrapError(heritage.EDISCOVERY, err, "discover max record ID")
		}
		return nil, err
	}

	ids = make([]int, maxID)
	for i := range ids {
		ids[i] = i + 1
	}
	if r.Concurrency <= 1 {
		r.shuffle(ids)
	}
	return ids, nil
}

// uniqueIDs removes duplicates keeping the first occurrence.
func uniqueIDs(ids []int) ([]int, error) {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, heritage.Errorf(heritage.EINVALID, "record ID must be positive, got %d", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// process fetches and parses a single record.
func (r *Runner) process(ctx context.Context, id int) result {
	if ctx.Err() != nil {
		return result{outcome: heritage.Outcome{ID: id}, skipped: true}
	}
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return result{outcome: heritage.Outcome{ID: id}, skipped: true}
		}
	}

	// A started fetch runs to completion; the client's timeout bounds it.
	resp, err := r.Fetcher.FetchRecord(context.WithoutCancel(ctx), id)
	if err != nil {
		return result{
			outcome: heritage.Outcome{ID: id, Err: err},
			resp:    heritage.ResponseFromError(err),
		}
	}

	rec, diags, err := r.Parser.ParseRecord(id, resp.Body)
	if err != nil {
		return result{outcome: heritage.Outcome{ID: id, Err: err}, resp: resp, diags: diags}
	}
	return result{outcome: heritage.Outcome{ID: id, Record: rec}, resp: resp, diags: diags}
}

func (r *Runner) shuffle(ids []int) {
	if r.Shuffle != nil {
		r.Shuffle(ids)
		return
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func (r *Runner) report(d heritage.Diagnostic) {
	if r.Diagnostics != nil {
		r.Diagnostics.Report(d)
	}
}

func (r *Runner) progress(event ProgressEvent) {
	if r.Progress != nil {
		r.Progress(event)
	}
}
