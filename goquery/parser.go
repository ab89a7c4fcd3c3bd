package goquery

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/heritage"
)

// Class names used by register detail pages. Matching is case-sensitive.
const (
	titleSelector    = "td.ListingHeader"
	subtitleSelector = "td.ListingSubHeader"
	labelSelector    = "td.listingfieldname"
)

// Ensure Parser implements heritage.RecordParser at compile time.
var _ heritage.RecordParser = (*Parser)(nil)

// Parser extracts records from register detail pages.
// It holds no state and is safe for concurrent use.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseRecord parses a detail page body into a Record.
//
// The register answers with a success status for IDs that have no entry, so
// a missing title is the only existence check: such pages return ENOTFOUND.
// Field-level problems never fail the record; they are returned as
// diagnostics alongside it.
func (p *Parser) ParseRecord(id int, body []byte) (*heritage.Record, []heritage.Diagnostic, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, heritage.Errorf(heritage.EPARSE, "failed to parse HTML: %v", err)
	}

	titleSel := doc.Find(titleSelector).First()
	if titleSel.Length() == 0 {
		return nil, nil, heritage.Errorf(heritage.ENOTFOUND, "no title: treating as nonexistent record")
	}
	title, err := heritage.Normalize(innerContent(titleSel))
	if err != nil {
		return nil, nil, heritage.Errorf(heritage.ENORMALIZE, "title: %s", heritage.ErrorMessage(err))
	}
	if title == "" {
		return nil, nil, heritage.Errorf(heritage.ENOTFOUND, "empty title: treating as nonexistent record")
	}

	rec := &heritage.Record{ID: id, Title: title}
	var diags []heritage.Diagnostic

	subtitleSel := doc.Find(subtitleSelector).First()
	if subtitleSel.Length() == 0 {
		diags = append(diags, heritage.Diagnostic{
			ID:      id,
			Kind:    heritage.DiagnosticMissingSubtitle,
			Message: "subtitle not found",
		})
	} else if subtitle, err := heritage.Normalize(innerContent(subtitleSel)); err != nil {
		diags = append(diags, droppedField(id, heritage.KeySubtitle, err))
	} else {
		rec.Subtitle = subtitle
	}

	var parseErr error
	doc.Find(labelSelector).EachWithBreak(func(_ int, labelSel *goquery.Selection) bool {
		valueSel := labelSel.Next()
		if valueSel.Length() == 0 {
			parseErr = heritage.Errorf(heritage.EPARSE, "no value cell for label %q",
				strings.TrimSpace(labelSel.Text()))
			return false
		}

		rawLabel := innerContent(labelSel)
		label, err := heritage.Normalize(rawLabel)
		if err != nil {
			diags = append(diags, droppedField(id, rawLabel, err))
			return true
		}
		value, err := heritage.Normalize(innerContent(valueSel))
		if err != nil {
			diags = append(diags, droppedField(id, label, err))
			return true
		}

		key, ok := heritage.MapField(label)
		if !ok {
			diags = append(diags, heritage.Diagnostic{
				ID:      id,
				Kind:    heritage.DiagnosticUnrecognizedField,
				Label:   label,
				Message: fmt.Sprintf("field not found in map: %q", label),
			})
			return true
		}

		if heritage.IsCoordinateField(key) {
			if c, ok := heritage.ExtractCoordinate(value); ok {
				rec.Coordinate = &c
				return true
			}
		}
		rec.Set(key, value)
		return true
	})
	if parseErr != nil {
		return nil, nil, parseErr
	}

	return rec, diags, nil
}

// droppedField builds the diagnostic for a field whose text could not be
// normalized.
func droppedField(id int, label string, err error) heritage.Diagnostic {
	return heritage.Diagnostic{
		ID:      id,
		Kind:    heritage.DiagnosticDroppedField,
		Code:    heritage.ErrorCode(err),
		Label:   strings.ToValidUTF8(label, "?"),
		Message: heritage.ErrorMessage(err),
		Err:     err,
	}
}
