package podmirror

import "context"

// Fetcher retrieves linked-data documents from URLs.
type Fetcher interface {
	// Fetch issues a read request to the URL and decodes the response body
	// into a Document. A non-success status yields an EUNAVAILABLE error;
	// an undecodable body yields EINVALID.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Document, error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
