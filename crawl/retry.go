package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/podmirror"
)

// FetchFunc is the signature for a document fetch function.
type FetchFunc func(ctx context.Context, url string) (*podmirror.Document, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays attempts a fetch with backoff retries after each
// failure, one retry per delay. The logger, if non-nil, records each retry.
// Configurable delays keep tests fast.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (*podmirror.Document, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		doc, err := fetch(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
