package repositories

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spprovision/database"
	"spprovision/domain/contracts"
	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
	"spprovision/logging"
)

func newTestRepository(t *testing.T) contracts.RunRepository {
	t.Helper()
	db, err := database.New(database.Config{
		Path:              filepath.Join(t.TempDir(), "runs.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      1,
		ConnMaxLifetime:   time.Minute,
		ConnMaxIdleTime:   time.Minute,
		BusyTimeoutMs:     1000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}, logging.NewLoggerWithWriter(&logging.Config{Level: "error"}, &bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSqliteRunRepository(db)
}

func TestSqliteRunRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	run := runs.NewRun("run-1", "https://contoso.sharepoint.com/sites/pmo", "pmo")
	run.BeginPhase("lists")
	require.NoError(t, repo.CreateRun(ctx, run))

	got, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "https://contoso.sharepoint.com/sites/pmo", got.SiteURL)
	assert.Equal(t, "pmo", got.TemplateName)
	assert.Equal(t, runs.RunStatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, "lists", got.State.Phase)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Second)
	assert.Empty(t, got.Lists)
}

func TestSqliteRunRepository_UpdateReplacesLists(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	run := runs.NewRun("run-2", "https://contoso.sharepoint.com/sites/pmo", "pmo")
	require.NoError(t, repo.CreateRun(ctx, run))

	done := time.Now()
	run.Status = runs.RunStatusCompleted
	run.CompletedAt = &done
	run.State.Stats.ListsCreated = 1
	run.Lists = []provisioning.ListInfo{
		{ID: "a", Title: "Projects", URL: "https://contoso.sharepoint.com/sites/pmo/Lists/Projects", Created: true},
		{ID: "b", Title: "Tasks"},
	}
	require.NoError(t, repo.UpdateRun(ctx, run))

	run.Lists = run.Lists[:1]
	require.NoError(t, repo.UpdateRun(ctx, run))

	got, err := repo.GetRun(ctx, "run-2")
	require.NoError(t, err)
	assert.Equal(t, runs.RunStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.WithinDuration(t, done, *got.CompletedAt, time.Second)
	assert.Equal(t, 1, got.State.Stats.ListsCreated)
	assert.Equal(t, []provisioning.ListInfo{run.Lists[0]}, got.Lists)
}

func TestSqliteRunRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	err = repo.UpdateRun(ctx, runs.NewRun("missing", "https://x", ""))
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestSqliteRunRepository_RequiresID(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.CreateRun(context.Background(), runs.NewRun("", "https://x", ""))
	assert.ErrorIs(t, err, ErrMissingRunID)
}

func TestSqliteRunRepository_ListRunsNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		run := runs.NewRun(id, "https://x", "t")
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.CreateRun(ctx, run))
	}

	all, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "new", limited[0].ID)
}
