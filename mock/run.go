package mock

import (
	"context"

	"github.com/fwojciec/podmirror"
)

var _ podmirror.RunService = (*RunService)(nil)

// RunService is a mock implementation of podmirror.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *podmirror.CrawlRun) error
	FindRunsFn  func(ctx context.Context, filter podmirror.RunFilter) ([]*podmirror.CrawlRun, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *podmirror.CrawlRun) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter podmirror.RunFilter) ([]*podmirror.CrawlRun, error) {
	return s.FindRunsFn(ctx, filter)
}
