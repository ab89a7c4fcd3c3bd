package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/heritage"
)

var _ heritage.Inspector = (*dumpInspector)(nil)

// dumpInspector writes each fetched page to w: status line, headers, the raw
// body, then the parsed record or the reason it failed.
type dumpInspector struct {
	mu sync.Mutex
	w  io.Writer
}

func (d *dumpInspector) Inspect(id int, resp *heritage.Response, rec *heritage.Record, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(d.w, "=== record %d ===\n", id)
	fmt.Fprintf(d.w, "HTTP %d %s\n", resp.StatusCode, resp.URL)
	_ = resp.Header.Write(d.w)
	fmt.Fprintln(d.w)
	_, _ = d.w.Write(resp.Body)
	fmt.Fprintln(d.w)

	fmt.Fprintf(d.w, "=== parsed %d ===\n", id)
	if err != nil {
		fmt.Fprintf(d.w, "error: %v\n", err)
		return
	}
	data, merr := json.MarshalIndent(rec, "", "  ")
	if merr != nil {
		fmt.Fprintf(d.w, "error: %v\n", merr)
		return
	}
	_, _ = d.w.Write(data)
	fmt.Fprintln(d.w)
}
