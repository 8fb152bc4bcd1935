package contracts

import (
	"context"

	"spprovision/domain/runs"
)

// RunRepository persists provisioning runs.
type RunRepository interface {
	CreateRun(ctx context.Context, run *runs.Run) error
	// UpdateRun stores status, state, error and the ensured lists of the run.
	UpdateRun(ctx context.Context, run *runs.Run) error
	// GetRun returns ErrNotFound for unknown IDs.
	GetRun(ctx context.Context, runID string) (*runs.Run, error)
	// ListRuns returns the newest runs first.
	ListRuns(ctx context.Context, limit int) ([]*runs.Run, error)
}
