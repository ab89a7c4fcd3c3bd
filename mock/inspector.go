package mock

import "github.com/fwojciec/heritage"

var _ heritage.Inspector = (*Inspector)(nil)

// Inspector is a mock implementation of heritage.Inspector.
type Inspector struct {
	InspectFn func(id int, resp *heritage.Response, rec *heritage.Record, err error)
}

func (i *Inspector) Inspect(id int, resp *heritage.Response, rec *heritage.Record, err error) {
	i.InspectFn(id, resp, rec, err)
}
