package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/podmirror"
)

// Ensure LoggingStore implements podmirror.DocumentStore.
var _ podmirror.DocumentStore = (*LoggingStore)(nil)

// LoggingStore wraps a DocumentStore with debug logging per operation.
type LoggingStore struct {
	next   podmirror.DocumentStore
	logger *slog.Logger
}

// NewLoggingStore creates a LoggingStore wrapping next.
func NewLoggingStore(next podmirror.DocumentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Read delegates to the wrapped store. A miss is an expected outcome and
// logs at debug, not error.
func (s *LoggingStore) Read(ctx context.Context, key string) (*podmirror.Document, error) {
	doc, err := s.next.Read(ctx, key)
	if err != nil {
		s.logger.Debug("store read", "key", key, "hit", false, "code", podmirror.ErrorCode(err))
		return nil, err
	}
	s.logger.Debug("store read", "key", key, "hit", true)
	return doc, nil
}

// Write delegates to the wrapped store, logging the outcome.
func (s *LoggingStore) Write(ctx context.Context, key string, doc *podmirror.Document, saveAsFile bool) error {
	start := time.Now()
	err := s.next.Write(ctx, key, doc, saveAsFile)
	if err != nil {
		s.logger.Error("store write", "key", key, "asFile", saveAsFile, "err", err)
		return err
	}
	s.logger.Debug("store write", "key", key, "asFile", saveAsFile, "duration", time.Since(start))
	return nil
}
