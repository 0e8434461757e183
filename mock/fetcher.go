package mock

import (
	"context"

	"github.com/fwojciec/podmirror"
)

var _ podmirror.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of podmirror.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*podmirror.Document, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*podmirror.Document, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
