package podmirror

import (
	"context"
	"time"
)

// CrawlRun records the outcome of one full crawl across all configured
// servers.
type CrawlRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Servers attempted and how many of them failed.
	Servers int `json:"servers"`
	Failed  int `json:"failed"`

	// Documents registered across all servers and how many of them were
	// leaf indexes persisted with reconciliation.
	Documents int `json:"documents"`
	Leaves    int `json:"leaves"`

	// Approximate count of distinct instance references observed.
	References int `json:"references"`

	// First error encountered, empty on a clean run.
	Error string `json:"error,omitempty"`
}

// Validate returns an error if the run contains invalid fields.
func (r *CrawlRun) Validate() error {
	if r.StartedAt.IsZero() {
		return Errorf(EINVALID, "run start time required")
	}
	if r.Servers < 0 || r.Failed < 0 || r.Documents < 0 {
		return Errorf(EINVALID, "run counters must be non-negative")
	}
	return nil
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunService persists crawl history.
type RunService interface {
	// CreateRun records a completed crawl.
	CreateRun(ctx context.Context, run *CrawlRun) error

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*CrawlRun, error)
}
