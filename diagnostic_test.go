package heritage_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/heritage"
	"github.com/stretchr/testify/assert"
)

func TestDiagnosticCollector(t *testing.T) {
	t.Parallel()

	t.Run("collects concurrent reports", func(t *testing.T) {
		t.Parallel()

		var c heritage.DiagnosticCollector
		var wg sync.WaitGroup
		for i := 1; i <= 50; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				c.Report(heritage.Diagnostic{ID: id, Kind: heritage.DiagnosticUnrecognizedField})
			}(i)
		}
		wg.Wait()

		assert.Len(t, c.Diagnostics(), 50)
	})

	t.Run("filters by kind", func(t *testing.T) {
		t.Parallel()

		var c heritage.DiagnosticCollector
		c.Report(heritage.Diagnostic{ID: 1, Kind: heritage.DiagnosticMissingSubtitle})
		c.Report(heritage.FailureDiagnostic(2, heritage.Errorf(heritage.ENOTFOUND, "no title")))

		failures := c.Filter(heritage.DiagnosticFailure)
		assert.Len(t, failures, 1)
		assert.Equal(t, 2, failures[0].ID)
		assert.Equal(t, heritage.ENOTFOUND, failures[0].Code)
		assert.Equal(t, "no title", failures[0].Message)
	})
}

func TestMultiDiagnosticSink(t *testing.T) {
	t.Parallel()

	var a, b heritage.DiagnosticCollector
	sink := heritage.MultiDiagnosticSink(&a, &b)

	sink.Report(heritage.Diagnostic{ID: 5})

	assert.Len(t, a.Diagnostics(), 1)
	assert.Len(t, b.Diagnostics(), 1)
}

func TestDiagnosticKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "failure", heritage.DiagnosticFailure.String())
	assert.Equal(t, "unrecognized_field", heritage.DiagnosticUnrecognizedField.String())
	assert.Equal(t, "missing_subtitle", heritage.DiagnosticMissingSubtitle.String())
	assert.Equal(t, "dropped_field", heritage.DiagnosticDroppedField.String())
}
