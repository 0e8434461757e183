// Package slog provides logging decorators for podmirror interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/podmirror"
)

// Ensure LoggingFetcher implements podmirror.Fetcher.
var _ podmirror.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with structured logging per fetch.
type LoggingFetcher struct {
	next   podmirror.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a LoggingFetcher wrapping next.
func NewLoggingFetcher(next podmirror.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped Fetcher, logging the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*podmirror.Document, error) {
	start := time.Now()
	doc, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("fetch", "url", url, "duration", time.Since(start), "err", err)
		return nil, err
	}
	f.logger.Debug("fetch",
		"url", url,
		"nodes", len(doc.Graph),
		"instances", len(doc.Instances),
		"duration", time.Since(start),
	)
	return doc, nil
}

// Close delegates to the wrapped Fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
