package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/podmirror"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ podmirror.RunService = (*RunService)(nil)

// RunService implements podmirror.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a completed crawl. The run is assigned a fresh ID.
func (s *RunService) CreateRun(ctx context.Context, run *podmirror.CrawlRun) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, servers, failed, documents, leaves, ref_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.Servers, run.Failed, run.Documents, run.Leaves, run.References, run.Error)

	return err
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter podmirror.RunFilter) ([]*podmirror.CrawlRun, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, servers, failed, documents, leaves, ref_count, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*podmirror.CrawlRun
	for rows.Next() {
		var run podmirror.CrawlRun
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt,
			&run.Servers, &run.Failed, &run.Documents, &run.Leaves, &run.References, &run.Error); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
