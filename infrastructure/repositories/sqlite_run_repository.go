package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spprovision/database"
	"spprovision/domain/contracts"
	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
	"spprovision/infrastructure/serialization"
)

// DefaultRunListLimit caps ListRuns when the caller passes a non-positive limit.
const DefaultRunListLimit = 50

const runColumns = `id, site_url, template_name, status, started_at, completed_at, state_json, error`

// SqliteRunRepository implements contracts.RunRepository with read/write separation.
type SqliteRunRepository struct {
	*BaseRepository
	serializer *serialization.RunStateSerializer
}

// NewSqliteRunRepository creates a new run repository over database.
func NewSqliteRunRepository(database *database.Database) contracts.RunRepository {
	return &SqliteRunRepository{
		BaseRepository: NewBaseRepository(database),
		serializer:     serialization.NewRunStateSerializer(),
	}
}

// CreateRun inserts a run together with any lists it already holds.
func (r *SqliteRunRepository) CreateRun(ctx context.Context, run *runs.Run) error {
	if run.ID == "" {
		return ErrMissingRunID
	}
	stateJSON, err := r.serializer.SerializeState(run.State)
	if err != nil {
		return err
	}

	return r.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO provisioning_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.SiteURL, run.TemplateName, string(run.Status),
			run.StartedAt.UTC(), r.ToNullTime(run.CompletedAt), stateJSON, run.Error)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		return r.insertLists(ctx, tx, run.ID, run.Lists)
	})
}

// UpdateRun rewrites the mutable columns of a run and replaces its lists.
func (r *SqliteRunRepository) UpdateRun(ctx context.Context, run *runs.Run) error {
	if run.ID == "" {
		return ErrMissingRunID
	}
	stateJSON, err := r.serializer.SerializeState(run.State)
	if err != nil {
		return err
	}

	return r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE provisioning_runs
			    SET status = ?, completed_at = ?, state_json = ?, error = ?
			  WHERE id = ?`,
			string(run.Status), r.ToNullTime(run.CompletedAt), stateJSON, run.Error, run.ID)
		if err != nil {
			return fmt.Errorf("update run: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrRunNotFound{RunID: run.ID, Err: contracts.ErrNotFound}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM provisioning_run_lists WHERE run_id = ?`, run.ID); err != nil {
			return fmt.Errorf("clear run lists: %w", err)
		}
		return r.insertLists(ctx, tx, run.ID, run.Lists)
	})
}

func (r *SqliteRunRepository) insertLists(ctx context.Context, tx *sql.Tx, runID string, lists []provisioning.ListInfo) error {
	for _, l := range lists {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO provisioning_run_lists (run_id, list_id, title, url, created) VALUES (?, ?, ?, ?, ?)`,
			runID, l.ID, l.Title, l.URL, r.ToBoolInt(l.Created))
		if err != nil {
			return fmt.Errorf("insert run list %q: %w", l.Title, err)
		}
	}
	return nil
}

// GetRun retrieves a single run by ID
func (r *SqliteRunRepository) GetRun(ctx context.Context, runID string) (*runs.Run, error) {
	row := r.ReadDB().QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM provisioning_runs WHERE id = ?`, runID)
	run, err := r.scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound{RunID: runID, Err: contracts.ErrNotFound}
		}
		return nil, err
	}

	if run.Lists, err = r.loadLists(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first
func (r *SqliteRunRepository) ListRuns(ctx context.Context, limit int) ([]*runs.Run, error) {
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT `+runColumns+` FROM provisioning_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var result []*runs.Run
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	for _, run := range result {
		if run.Lists, err = r.loadLists(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SqliteRunRepository) scanRun(row rowScanner) (*runs.Run, error) {
	var (
		run         runs.Run
		status      string
		startedAt   time.Time
		completedAt sql.NullTime
		stateJSON   string
	)
	if err := row.Scan(&run.ID, &run.SiteURL, &run.TemplateName, &status,
		&startedAt, &completedAt, &stateJSON, &run.Error); err != nil {
		return nil, err
	}

	state, err := r.serializer.DeserializeState(stateJSON)
	if err != nil {
		return nil, err
	}
	run.Status = runs.RunStatus(status)
	run.StartedAt = startedAt
	run.CompletedAt = r.FromNullTime(completedAt)
	run.State = state
	return &run, nil
}

func (r *SqliteRunRepository) loadLists(ctx context.Context, runID string) ([]provisioning.ListInfo, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT list_id, title, url, created FROM provisioning_run_lists WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("load run lists: %w", err)
	}
	defer rows.Close()

	var lists []provisioning.ListInfo
	for rows.Next() {
		var (
			l       provisioning.ListInfo
			created int
		)
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &created); err != nil {
			return nil, fmt.Errorf("scan run list: %w", err)
		}
		l.Created = created != 0
		lists = append(lists, l)
	}
	return lists, rows.Err()
}
