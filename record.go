package heritage

import (
	"context"
	"encoding/json"
	"errors"
)

// Record is one normalized register entry.
type Record struct {
	// ID is the entry's position in the register.
	ID int

	// Title is always present on a valid record.
	Title string

	// Subtitle is empty when the page has none.
	Subtitle string

	// Fields maps canonical keys (see FieldMap) to normalized values.
	Fields map[string]string

	// Coordinate is set when a coordinate-bearing field carried a reference.
	Coordinate *Coordinate
}

// Validate returns an error if the record breaks the id/title invariant.
func (r *Record) Validate() error {
	if r.ID <= 0 {
		return Errorf(EINVALID, "record ID must be positive")
	}
	if r.Title == "" {
		return Errorf(EINVALID, "record %d title required", r.ID)
	}
	return nil
}

// Set stores a field value, replacing any earlier value for the key.
func (r *Record) Set(key, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[key] = value
}

// Map returns the record as a flat key/value mapping, the shape it takes
// in the output artifact.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		m[k] = v
	}
	m[KeyID] = r.ID
	m[KeyTitle] = r.Title
	if r.Subtitle != "" {
		m[KeySubtitle] = r.Subtitle
	}
	if r.Coordinate != nil {
		m[KeyGPSX] = r.Coordinate.Easting
		m[KeyGPSY] = r.Coordinate.Northing
	}
	return m
}

// MarshalJSON encodes the record as one flat object with sorted keys.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON decodes the flat object produced by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{}
	var gpsX, gpsY *int
	for k, v := range raw {
		switch k {
		case KeyID:
			if err := json.Unmarshal(v, &r.ID); err != nil {
				return err
			}
		case KeyGPSX, KeyGPSY:
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			if k == KeyGPSX {
				gpsX = &n
			} else {
				gpsY = &n
			}
		default:
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			switch k {
			case KeyTitle:
				r.Title = s
			case KeySubtitle:
				r.Subtitle = s
			default:
				r.Set(k, s)
			}
		}
	}

	if gpsX != nil && gpsY != nil {
		r.Coordinate = &Coordinate{Easting: *gpsX, Northing: *gpsY}
	} else if gpsX != nil || gpsY != nil {
		return errors.New("gps_x and gps_y must appear together")
	}
	return nil
}

// RecordParser turns a fetched detail page into a Record.
type RecordParser interface {
	// ParseRecord parses the raw page body for the given ID.
	// Notices that do not fail the record (unknown labels, a missing
	// subtitle, dropped fields) are returned as diagnostics.
	// A page without a title returns ENOTFOUND.
	ParseRecord(id int, body []byte) (*Record, []Diagnostic, error)
}

// RecordWriter receives successful records as they become available.
type RecordWriter interface {
	// WriteRecord emits one record.
	WriteRecord(ctx context.Context, r *Record) error

	// Close finishes the output. It must be called even when no record
	// was written.
	Close() error
}

// MultiRecordWriter returns a RecordWriter that writes to every writer in turn.
// Close closes all writers and returns the first error.
func MultiRecordWriter(writers ...RecordWriter) RecordWriter {
	return multiRecordWriter(writers)
}

type multiRecordWriter []RecordWriter

func (m multiRecordWriter) WriteRecord(ctx context.Context, r *Record) error {
	for _, w := range m {
		if err := w.WriteRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m multiRecordWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
