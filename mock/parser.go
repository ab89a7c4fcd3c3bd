package mock

import "github.com/fwojciec/heritage"

var _ heritage.RecordParser = (*RecordParser)(nil)

// RecordParser is a mock implementation of heritage.RecordParser.
type RecordParser struct {
	ParseRecordFn func(id int, body []byte) (*heritage.Record, []heritage.Diagnostic, error)
}

func (p *RecordParser) ParseRecord(id int, body []byte) (*heritage.Record, []heritage.Diagnostic, error) {
	return p.ParseRecordFn(id, body)
}
