package heritage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Default register endpoints.
const (
	DefaultIndexURL        = "http://www.historic.org.nz/Register/Recent_Registrations.html"
	DefaultRecordURLFormat = "http://www.historic.org.nz/Register/ListingDetail.asp?RID=%d&p=print"
)

// Endpoints locates the register's index page and detail pages.
type Endpoints struct {
	// IndexURL lists recent registrations and links to detail pages.
	IndexURL string

	// RecordURLFormat is a fmt format with a single %d verb for the record ID.
	RecordURLFormat string
}

// DefaultEndpoints returns the live register endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		IndexURL:        DefaultIndexURL,
		RecordURLFormat: DefaultRecordURLFormat,
	}
}

// RecordURL returns the detail page URL for id.
func (e Endpoints) RecordURL(id int) string {
	return fmt.Sprintf(e.RecordURLFormat, id)
}

// Response is a fetched page with its transport metadata.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher retrieves pages by URL.
type Fetcher interface {
	// Fetch retrieves the page at url. The context controls timeout and
	// cancellation. A non-success status returns a *FetchError carrying
	// the response.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// RecordFetcher retrieves register detail pages by record ID.
type RecordFetcher interface {
	// FetchRecord retrieves the detail page for id.
	//
	// The register answers with a success status for many IDs that have no
	// entry, so a nil error does not mean the record exists.
	FetchRecord(ctx context.Context, id int) (*Response, error)
}

// FetchError is returned when the server answers with a non-success status.
// Its code is EFETCH.
type FetchError struct {
	Response *Response
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Response.StatusCode, e.Response.URL)
}

// Unwrap exposes the failure as an EFETCH application error.
func (e *FetchError) Unwrap() error {
	return Errorf(EFETCH, "HTTP %d for %s", e.Response.StatusCode, e.Response.URL)
}

// ResponseFromError returns the response attached to a FetchError, if any.
func ResponseFromError(err error) *Response {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Response
	}
	return nil
}
