package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"spprovision/domain/contracts"
	"spprovision/domain/events"
	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
	"spprovision/logging"
	platform "spprovision/platform/provisioning"
)

// ProvisioningServiceImpl implements run orchestration over one site.
type ProvisioningServiceImpl struct {
	client   contracts.ListClient
	runRepo  contracts.RunRepository
	eventBus events.RunEventPublisher
	logger   *logging.Logger

	// Runs are serialized so two templates never interleave against the site.
	runMutex sync.Mutex
}

// NewProvisioningService creates a new provisioning service
func NewProvisioningService(
	client contracts.ListClient,
	runRepo contracts.RunRepository,
	eventBus events.RunEventPublisher,
) ProvisioningService {
	return &ProvisioningServiceImpl{
		client:   client,
		runRepo:  runRepo,
		eventBus: eventBus,
		logger:   logging.Default().WithComponent("provisioning_service"),
	}
}

// Validate implements ProvisioningService.
func (s *ProvisioningServiceImpl) Validate(schema *provisioning.Schema) error {
	return validateSchema(schema)
}

// Provision implements ProvisioningService.
func (s *ProvisioningServiceImpl) Provision(ctx context.Context, schema *provisioning.Schema) (*runs.Run, error) {
	if err := validateSchema(schema); err != nil {
		return nil, err
	}

	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	run := runs.NewRun(uuid.NewString(), s.client.SiteURL(), schema.Name)
	if err := s.runRepo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	ctx = logging.ContextWithRunID(ctx, run.ID)
	log := s.logger.WithContext(ctx)
	counts := schema.Count()
	log.Info("Provisioning run started",
		"site_url", run.SiteURL,
		"template", run.TemplateName,
		"lists", counts.Lists,
		"fields", counts.Fields,
		"views", counts.Views)

	lifecycle := runs.RunLifecycle{}
	if err := lifecycle.Start(run); err != nil {
		return nil, err
	}
	s.saveRun(ctx, run)

	tracker := newRunTracker(run, s.saveRun)
	provisioner := platform.NewProvisioner(platform.NewListsHandler(s.client))
	start := time.Now()
	provisionErr := provisioner.Provision(ctx, schema, tracker)
	log.Performance("provision_run", time.Since(start))

	// Final state is stored even when ctx was cancelled mid-run.
	finalCtx := context.WithoutCancel(ctx)
	if provisionErr != nil {
		log.Error("Provisioning run failed", "error", provisionErr)
		if err := lifecycle.Fail(run, provisionErr.Error()); err != nil {
			log.Warn("Failed to mark run failed", "error", err)
		}
		s.saveRun(finalCtx, run)
		s.eventBus.PublishRunFailed(events.RunFailedEvent{
			Run:       run,
			Error:     provisionErr.Error(),
			Timestamp: time.Now(),
		})
		return run, provisionErr
	}

	if err := lifecycle.Complete(run); err != nil {
		log.Warn("Failed to mark run completed", "error", err)
	}
	s.saveRun(finalCtx, run)
	s.eventBus.PublishRunCompleted(events.RunCompletedEvent{Run: run, Timestamp: time.Now()})
	return run, nil
}

// saveRun persists run progress; storage errors are logged and never abort provisioning.
func (s *ProvisioningServiceImpl) saveRun(ctx context.Context, run *runs.Run) {
	if err := s.runRepo.UpdateRun(ctx, run); err != nil {
		s.logger.WithContext(ctx).Warn("Failed to persist run", "status", run.Status, "error", err)
	}
}

// GetRun implements ProvisioningService.
func (s *ProvisioningServiceImpl) GetRun(ctx context.Context, runID string) (*runs.Run, error) {
	return s.runRepo.GetRun(ctx, runID)
}

// ListRuns implements ProvisioningService.
func (s *ProvisioningServiceImpl) ListRuns(ctx context.Context, limit int) ([]*runs.Run, error) {
	return s.runRepo.ListRuns(ctx, limit)
}
