package application

import (
	"context"
	"fmt"

	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
)

// ProvisioningService applies provisioning templates to the configured site and records each run.
type ProvisioningService interface {
	// Validate checks a template without contacting SharePoint.
	Validate(schema *provisioning.Schema) error

	// Provision runs schema to completion. A run that fails remotely is
	// returned together with the error; validation failures return no run.
	Provision(ctx context.Context, schema *provisioning.Schema) (*runs.Run, error)

	GetRun(ctx context.Context, runID string) (*runs.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*runs.Run, error)
}

// validateSchema rejects nil templates before delegating to Schema.Validate.
func validateSchema(schema *provisioning.Schema) error {
	if schema == nil {
		return fmt.Errorf("%w: no template", provisioning.ErrInvalidSchema)
	}
	return schema.Validate()
}
