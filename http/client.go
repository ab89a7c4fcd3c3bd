// Package http provides the HTTP implementation of heritage.Fetcher and
// heritage.RecordFetcher for the register's static pages.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/heritage"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodyBytes caps the size of a response body.
const DefaultMaxBodyBytes = 4 << 20

// DefaultUserAgent identifies the scraper to the register.
const DefaultUserAgent = "hpscrape/1.0 (+https://github.com/fwojciec/heritage)"

// Ensure Client implements the fetcher interfaces at compile time.
var (
	_ heritage.Fetcher       = (*Client)(nil)
	_ heritage.RecordFetcher = (*Client)(nil)
)

// Client retrieves register pages over HTTP and decodes them to UTF-8.
type Client struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
	endpoints    heritage.Endpoints
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for each request.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodyBytes sets the largest response body accepted.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		c.maxBodyBytes = n
	}
}

// WithEndpoints points the client at a different register.
func WithEndpoints(e heritage.Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is
// overwritten with the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		endpoints:    heritage.DefaultEndpoints(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{}
	}
	c.client.Timeout = c.timeout

	return c
}

// Endpoints returns the endpoints the client fetches from.
func (c *Client) Endpoints() heritage.Endpoints {
	return c.endpoints
}

// FetchRecord retrieves the detail page for the record with the given ID.
func (c *Client) FetchRecord(ctx context.Context, id int) (*heritage.Response, error) {
	return c.Fetch(ctx, c.endpoints.RecordURL(id))
}

// Fetch retrieves the page at url. Transport failures and timeouts return
// EFETCH errors. A non-2xx status returns a *heritage.FetchError that still
// carries the response.
func (c *Client) Fetch(ctx context.Context, url string) (*heritage.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, heritage.WrapError(heritage.EFETCH, err, "build request for %s", url)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, heritage.WrapError(heritage.EFETCH, err, "GET %s", url)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp)
	if err != nil {
		return nil, heritage.WrapError(heritage.EFETCH, err, "read body of %s", url)
	}

	r := &heritage.Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &heritage.FetchError{Response: r}
	}
	return r, nil
}

// readBody reads at most maxBodyBytes of the response and converts it from
// the declared or sniffed charset to UTF-8.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > c.maxBodyBytes {
		return nil, heritage.Errorf(heritage.EFETCH, "response body exceeds %d bytes", c.maxBodyBytes)
	}

	enc, name, _ := charset.DetermineEncoding(raw, resp.Header.Get("Content-Type"))
	if name == "utf-8" {
		return raw, nil
	}
	return enc.NewDecoder().Bytes(raw)
}
