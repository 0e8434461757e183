package podmirror

import "context"

// DocumentStore persists documents durably between crawl runs, keyed by the
// resource URL. Implementations derive their storage location from the URL's
// path component.
type DocumentStore interface {
	// Read returns the stored document for key.
	// Returns ENOTFOUND if nothing is stored under key and EINVALID if the
	// stored bytes do not decode into a Document.
	Read(ctx context.Context, key string) (*Document, error)

	// Write persists doc under key, creating any needed intermediate
	// structure. When saveAsFile is set the key addresses a single terminal
	// file; otherwise the key is treated as a directory-style prefix for a
	// container collection.
	Write(ctx context.Context, key string, doc *Document, saveAsFile bool) error
}
