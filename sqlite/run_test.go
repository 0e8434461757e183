package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/podmirror"
	"github.com/fwojciec/podmirror/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("creates run with generated ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		run := &podmirror.CrawlRun{
			StartedAt:  time.Now().UTC().Add(-time.Minute),
			FinishedAt: time.Now().UTC(),
			Servers:    2,
			Failed:     1,
			Documents:  5,
			Leaves:     2,
			References: 17,
			Error:      "fetch root http://localhost:9999/: connection refused",
		}

		require.NoError(t, svc.CreateRun(context.Background(), run))
		assert.NotEmpty(t, run.ID)
	})

	t.Run("rejects run without start time", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		err := svc.CreateRun(context.Background(), &podmirror.CrawlRun{})

		require.Error(t, err)
		assert.Equal(t, podmirror.EINVALID, podmirror.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns runs most recent first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

		for i := 0; i < 3; i++ {
			run := &podmirror.CrawlRun{
				StartedAt:  base.Add(time.Duration(i) * time.Hour),
				FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
				Servers:    i + 1,
			}
			require.NoError(t, svc.CreateRun(context.Background(), run))
		}

		runs, err := svc.FindRuns(context.Background(), podmirror.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, 3, runs[0].Servers)
		assert.Equal(t, 1, runs[2].Servers)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			run := &podmirror.CrawlRun{
				StartedAt:  base.Add(time.Duration(i) * time.Hour),
				FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
				Servers:    i,
			}
			require.NoError(t, svc.CreateRun(context.Background(), run))
		}

		runs, err := svc.FindRuns(context.Background(), podmirror.RunFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, 3, runs[0].Servers)
		assert.Equal(t, 2, runs[1].Servers)
	})

	t.Run("round trips all fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		run := &podmirror.CrawlRun{
			StartedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 8, 30, 10, 5, 0, 0, time.UTC),
			Servers:    2,
			Failed:     1,
			Documents:  7,
			Leaves:     3,
			References: 42,
			Error:      "boom",
		}
		require.NoError(t, svc.CreateRun(context.Background(), run))

		runs, err := svc.FindRuns(context.Background(), podmirror.RunFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)

		got := runs[0]
		assert.Equal(t, run.ID, got.ID)
		assert.True(t, got.StartedAt.Equal(run.StartedAt))
		assert.True(t, got.FinishedAt.Equal(run.FinishedAt))
		assert.Equal(t, run.Servers, got.Servers)
		assert.Equal(t, run.Failed, got.Failed)
		assert.Equal(t, run.Documents, got.Documents)
		assert.Equal(t, run.Leaves, got.Leaves)
		assert.Equal(t, run.References, got.References)
		assert.Equal(t, run.Error, got.Error)
	})

	t.Run("empty table yields no runs", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(mustOpenDB(t))
		runs, err := svc.FindRuns(context.Background(), podmirror.RunFilter{})
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}
