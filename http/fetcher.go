// Package http provides an HTTP-based implementation of podmirror.Fetcher
// for retrieving linked-data documents from index servers.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fwojciec/podmirror"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the crawler to index servers.
const DefaultUserAgent = "podmirror/1.0"

// Ensure Fetcher implements podmirror.Fetcher at compile time.
var _ podmirror.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documents over HTTP and decodes them from JSON-LD.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves and decodes the document at the given URL.
// A non-200 status yields an EUNAVAILABLE error; a body that does not
// decode as a document yields EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*podmirror.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/ld+json, application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, podmirror.Errorf(podmirror.EUNAVAILABLE, "GET %s: unexpected status %d", url, resp.StatusCode)
	}

	var doc podmirror.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, podmirror.Errorf(podmirror.EINVALID, "decode %s: %v", url, err)
	}

	return &doc, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
