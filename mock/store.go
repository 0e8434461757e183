package mock

import (
	"context"

	"github.com/fwojciec/podmirror"
)

var _ podmirror.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of podmirror.DocumentStore.
type DocumentStore struct {
	ReadFn  func(ctx context.Context, key string) (*podmirror.Document, error)
	WriteFn func(ctx context.Context, key string, doc *podmirror.Document, saveAsFile bool) error
}

func (s *DocumentStore) Read(ctx context.Context, key string) (*podmirror.Document, error) {
	return s.ReadFn(ctx, key)
}

func (s *DocumentStore) Write(ctx context.Context, key string, doc *podmirror.Document, saveAsFile bool) error {
	return s.WriteFn(ctx, key, doc, saveAsFile)
}
