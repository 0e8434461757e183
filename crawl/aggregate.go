package crawl

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/podmirror"
	"github.com/fwojciec/podmirror/bloom"
	"golang.org/x/sync/errgroup"
)

// Sizing for the distinct-reference tally across one run.
const (
	expectedReferences = 100000
	referenceFPRate    = 0.01
)

// Aggregator runs a full crawl across all configured servers and merges the
// per-server registries into a Snapshot. A server whose root or type index
// cannot be resolved is logged and skipped; a failure deeper in a server's
// graph aborts the run, and the partial snapshot gathered up to that point
// is still returned.
type Aggregator struct {
	Crawler *Crawler
	Servers []podmirror.Server

	// Concurrency limits how many servers are crawled at once. Values
	// below 2 keep the default strictly sequential behavior. Each server's
	// walk is single-threaded regardless; only the aggregate is shared.
	Concurrency int

	// Runs, if set, records each completed crawl.
	Runs podmirror.RunService

	Logger *slog.Logger
}

// Run crawls every configured server and returns the aggregated snapshot.
// The snapshot is non-nil and best-effort even when an error is returned.
func (a *Aggregator) Run(ctx context.Context) (*podmirror.Snapshot, error) {
	logger := a.logger()
	started := time.Now().UTC()

	snap := podmirror.NewSnapshot()
	refs := bloom.NewFilter(expectedReferences, referenceFPRate)
	var (
		mu     sync.Mutex
		failed int
		leaves int
		first  string
	)

	concurrency := a.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, srv := range a.Servers {
		g.Go(func() error {
			reg, err := a.Crawler.CrawlServer(gctx, srv.URL)

			mu.Lock()
			defer mu.Unlock()

			if reg != nil {
				reg.Each(func(url string, doc *podmirror.Document) {
					if _, ok := snap.Indexes[url]; ok {
						return
					}
					snap.Indexes[url] = doc
					if doc.Instances != nil {
						leaves++
					}
					for _, ref := range doc.Instances {
						refs.Add(ref)
					}
				})
			}

			if err != nil {
				failed++
				if first == "" {
					first = err.Error()
				}
				var ee *ExpandError
				if errors.As(err, &ee) {
					// Deep failures are not isolated per subtree; they end
					// the run.
					logger.Error("expansion failed, aborting run", "server", srv.URL, "err", err)
					return err
				}
				logger.Error("server crawl failed", "server", srv.URL, "err", err)
				return nil
			}
			return nil
		})
	}

	runErr := g.Wait()

	run := &podmirror.CrawlRun{
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Servers:    len(a.Servers),
		Failed:     failed,
		Documents:  len(snap.Indexes),
		Leaves:     leaves,
		References: int(refs.EstimatedCount()),
		Error:      first,
	}
	if a.Runs != nil {
		if err := a.Runs.CreateRun(ctx, run); err != nil {
			logger.Error("recording crawl run failed", "err", err)
		}
	}

	logger.Info("crawl finished",
		"servers", run.Servers,
		"failed", run.Failed,
		"documents", run.Documents,
		"leaves", run.Leaves,
		"references", run.References,
		"duration", run.FinishedAt.Sub(run.StartedAt),
	)

	return snap, runErr
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
