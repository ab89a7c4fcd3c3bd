package heritage

import (
	"fmt"
	"sync"
)

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind int

const (
	// DiagnosticFailure reports a record that was not emitted.
	DiagnosticFailure DiagnosticKind = iota

	// DiagnosticUnrecognizedField reports a label missing from FieldMap.
	// The record still succeeds.
	DiagnosticUnrecognizedField

	// DiagnosticMissingSubtitle reports a page without a subtitle.
	DiagnosticMissingSubtitle

	// DiagnosticDroppedField reports a field dropped because its text could
	// not be normalized.
	DiagnosticDroppedField
)

// String returns the kind's name as used in logs.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticFailure:
		return "failure"
	case DiagnosticUnrecognizedField:
		return "unrecognized_field"
	case DiagnosticMissingSubtitle:
		return "missing_subtitle"
	case DiagnosticDroppedField:
		return "dropped_field"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic is one entry on the diagnostic stream. It is never mixed into
// the data artifact.
type Diagnostic struct {
	ID      int
	Kind    DiagnosticKind
	Code    string // error code for failures and dropped fields
	Label   string // raw label text, when a field is involved
	Message string
	Err     error
}

// FailureDiagnostic builds the diagnostic reported for a failed record.
func FailureDiagnostic(id int, err error) Diagnostic {
	return Diagnostic{
		ID:      id,
		Kind:    DiagnosticFailure,
		Code:    ErrorCode(err),
		Message: ErrorMessage(err),
		Err:     err,
	}
}

// DiagnosticSink receives diagnostics. Implementations must be safe for
// concurrent use.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticCollector is an in-memory DiagnosticSink.
type DiagnosticCollector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

var _ DiagnosticSink = (*DiagnosticCollector)(nil)

// Report appends d to the collection.
func (c *DiagnosticCollector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of everything reported so far.
func (c *DiagnosticCollector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diagnostics...)
}

// Filter returns the collected diagnostics of the given kind.
func (c *DiagnosticCollector) Filter(kind DiagnosticKind) []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Diagnostic
	for _, d := range c.diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// MultiDiagnosticSink returns a sink that reports to every sink in turn.
func MultiDiagnosticSink(sinks ...DiagnosticSink) DiagnosticSink {
	return multiDiagnosticSink(sinks)
}

type multiDiagnosticSink []DiagnosticSink

func (m multiDiagnosticSink) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}
