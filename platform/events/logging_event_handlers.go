package events

import (
	"spprovision/domain/events"
	"spprovision/domain/runs"
	"spprovision/logging"
)

// LoggingEventHandlers writes a summary line for every finished run
type LoggingEventHandlers struct {
	logger *logging.Logger
}

// NewLoggingEventHandlers creates run summary handlers; a nil logger uses the default.
func NewLoggingEventHandlers(logger *logging.Logger) *LoggingEventHandlers {
	if logger == nil {
		logger = logging.Default()
	}
	return &LoggingEventHandlers{logger: logger.WithComponent("run_events")}
}

// RegisterHandlers registers all summary handlers with the event bus
func (h *LoggingEventHandlers) RegisterHandlers(eventBus *RunEventBus) {
	eventBus.OnRunCompleted(h.handleRunCompleted)
	eventBus.OnRunFailed(h.handleRunFailed)
}

func (h *LoggingEventHandlers) handleRunCompleted(event events.RunCompletedEvent) {
	if event.Run == nil {
		h.logger.Warn("Run completed event without run")
		return
	}
	stats := event.Run.State.Stats
	h.logger.Info("Provisioning run completed",
		"run_id", event.Run.ID,
		"site_url", event.Run.SiteURL,
		"template", event.Run.TemplateName,
		"duration", event.Run.Duration().String(),
		"lists_ensured", stats.ListsEnsured,
		"lists_created", stats.ListsCreated,
		"fields", stats.FieldsCreated+stats.FieldsRecreated,
		"views", stats.ViewsCreated+stats.ViewsUpdated)
}

func (h *LoggingEventHandlers) handleRunFailed(event events.RunFailedEvent) {
	h.logger.Error("Provisioning run failed",
		"run_id", runID(event.Run),
		"phase", phase(event.Run),
		"error", event.Error)
}

func runID(run *runs.Run) string {
	if run == nil {
		return "unknown"
	}
	return run.ID
}

func phase(run *runs.Run) string {
	if run == nil {
		return "unknown"
	}
	return run.State.Phase
}
