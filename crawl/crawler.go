// Package crawl implements the recursive index-graph walk and the
// orchestration of full crawls across servers. It coordinates fetching,
// reconciliation against the local mirror, and registry accumulation.
package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/podmirror"
)

// DefaultIndexClass is the resource class whose instance containers the
// type index is scanned for.
const DefaultIndexClass = "ex:Index"

// ExpandError marks a failure inside recursive expansion. Failures while
// resolving a server's root or type index abort only that server; an
// ExpandError aborts the whole run.
type ExpandError struct {
	URL string
	Err error
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("expand %s: %v", e.URL, e.Err)
}

func (e *ExpandError) Unwrap() error {
	return e.Err
}

// Crawler walks the index graph of a single server: root document → public
// type index → instance containers → recursively expanded indexes and
// leaves. The walk is synchronous and depth-first; each fetch blocks the
// walker until it returns.
type Crawler struct {
	Fetcher podmirror.Fetcher
	Store   podmirror.DocumentStore

	// RateLimiter, if set, throttles fetches per host.
	RateLimiter podmirror.HostLimiter

	// RetryDelays configures fetch retry backoff. Nil means
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// IndexClass overrides DefaultIndexClass.
	IndexClass string

	Logger *slog.Logger
}

// CrawlServer resolves the discovery chain starting at rootURL and expands
// every discovered instance container. The returned Registry holds each
// index and leaf document visited, keyed by URL, and is valid (possibly
// partial) even when an error is returned.
//
// A failure resolving the root or type index is returned as a plain error
// the caller can treat as per-server. A missing type-index pointer or an
// empty registration list is not an error; the server just contributes
// nothing. Failures deeper in the graph return an *ExpandError.
func (c *Crawler) CrawlServer(ctx context.Context, rootURL string) (*Registry, error) {
	logger := c.logger()
	reg := NewRegistry()

	root, err := c.fetch(ctx, rootURL)
	if err != nil {
		return reg, fmt.Errorf("fetch root %s: %w", rootURL, err)
	}
	// Root documents are persisted verbatim, never reconciled.
	if err := c.Store.Write(ctx, rootURL, root, false); err != nil {
		return reg, fmt.Errorf("store root %s: %w", rootURL, err)
	}

	typeIndexURL := publicTypeIndex(root)
	if typeIndexURL == "" {
		logger.Warn("no public type index advertised", "server", rootURL)
		return reg, nil
	}

	typeIndex, err := c.fetch(ctx, typeIndexURL)
	if err != nil {
		return reg, fmt.Errorf("fetch type index %s: %w", typeIndexURL, err)
	}

	containers := c.instanceContainers(typeIndex)
	if len(containers) == 0 {
		logger.Warn("no matching type index registrations", "server", rootURL, "typeIndex", typeIndexURL)
		return reg, nil
	}
	logger.Info("expanding instance containers", "server", rootURL, "containers", len(containers))

	for _, container := range containers {
		if err := c.expand(ctx, container, podmirror.Overwrite, reg); err != nil {
			return reg, err
		}
	}

	return reg, nil
}

// expand fetches url, persists it according to mode, registers it, and
// recurses into its graph. The registry gate runs before anything else so
// that a URL is processed at most once per run and cyclic references
// terminate.
func (c *Crawler) expand(ctx context.Context, rawURL string, mode podmirror.SaveMode, reg *Registry) error {
	if reg.Has(rawURL) {
		return nil
	}

	doc, err := c.fetch(ctx, rawURL)
	if err != nil {
		return &ExpandError{URL: rawURL, Err: err}
	}

	switch mode {
	case podmirror.ReconcileUnion:
		if err := c.saveLeaf(ctx, rawURL, doc); err != nil {
			return &ExpandError{URL: rawURL, Err: err}
		}
	default:
		// Containers are overwritten; their children are re-derived fresh
		// each run.
		if err := c.Store.Write(ctx, rawURL, doc, false); err != nil {
			return &ExpandError{URL: rawURL, Err: err}
		}
	}

	reg.Add(rawURL, doc)
	c.logger().Debug("registered", "url", rawURL, "mode", mode.String(), "nodes", len(doc.Graph))

	for _, node := range doc.Graph {
		// A container may list itself; following that edge is a no-op loop.
		if node.ID == rawURL {
			continue
		}
		switch node.Kind() {
		case podmirror.KindPropertyIndexRegistration:
			if target := node.IndexTarget(); target != "" {
				if err := c.expand(ctx, target, podmirror.ReconcileUnion, reg); err != nil {
					return err
				}
			}
		case podmirror.KindIndex:
			if node.ID != "" {
				if err := c.expand(ctx, node.ID, podmirror.Overwrite, reg); err != nil {
					return err
				}
			}
		}
	}

	// A terminal leaf can masquerade as a container URL: no graph body, but
	// typed as a property index itself. It still gets merge semantics under
	// its own identifier.
	if mode == podmirror.Overwrite && !doc.IsContainer() && doc.Kind() == podmirror.KindPropertyIndex {
		if err := c.saveLeaf(ctx, rawURL, doc); err != nil {
			return &ExpandError{URL: rawURL, Err: err}
		}
	}

	return nil
}

// saveLeaf reconciles doc against the stored version for key and persists
// the merged result as a single addressed file.
func (c *Crawler) saveLeaf(ctx context.Context, key string, doc *podmirror.Document) error {
	logger := c.logger()

	old, err := c.Store.Read(ctx, key)
	if err != nil {
		// An unreadable cached document reads as absent; it is replaced,
		// not surfaced.
		if podmirror.ErrorCode(err) != podmirror.ENOTFOUND {
			logger.Warn("unreadable cached document, treating as absent", "url", key, "err", err)
		}
		old = nil
	}

	if old != nil {
		if added := podmirror.NewReferences(old, doc); len(added) > 0 {
			logger.Info("new references observed", "url", key, "added", len(added))
		}
	}

	merged := podmirror.Reconcile(old, doc)
	if old != nil && documentHash(old) != documentHash(merged) {
		logger.Debug("leaf changed", "url", key)
	}

	return c.Store.Write(ctx, key, merged, true)
}

// fetch applies the per-host rate limit and retry policy around the Fetcher.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (*podmirror.Document, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, podmirror.Errorf(podmirror.EINVALID, "invalid URL %q: %v", rawURL, err)
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, c.Logger, delays)
}

// instanceContainers collects, in order with duplicates allowed, the
// instance containers of every registration for the configured index class.
// Deduplication happens later at the registry gate, not here.
func (c *Crawler) instanceContainers(typeIndex *podmirror.Document) []string {
	class := c.IndexClass
	if class == "" {
		class = DefaultIndexClass
	}

	var containers []string
	for _, node := range typeIndex.Graph {
		if node.Kind() != podmirror.KindTypeIndexRegistration || node.ForClass != class {
			continue
		}
		if node.InstanceContainer != "" {
			containers = append(containers, node.InstanceContainer)
		}
	}
	return containers
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// publicTypeIndex returns the type index pointer advertised by a root
// document, or empty if none of its nodes expose one.
func publicTypeIndex(root *podmirror.Document) string {
	for _, node := range root.Graph {
		if node.PublicTypeIndex != "" {
			return node.PublicTypeIndex
		}
	}
	return ""
}

// documentHash fingerprints a document's serialized form for change
// detection in logs.
func documentHash(doc *podmirror.Document) uint64 {
	b, err := json.Marshal(doc)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}
