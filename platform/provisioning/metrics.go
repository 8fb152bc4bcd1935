package provisioning

import (
	"context"
	"time"

	domain "spprovision/domain/provisioning"
	"spprovision/logging"
)

// RunMetrics tracks timing and change counts for one provisioning pass.
// It wraps another Observer so callers still receive every event.
type RunMetrics struct {
	next Observer

	start        time.Time
	phaseStart   time.Time
	currentPhase string

	PhaseDurations map[string]time.Duration
	ListsEnsured   int
	ListsCreated   int
	Changes        map[Change]int
	TotalDuration  time.Duration
}

// NewRunMetrics starts timing a pass and forwards events to next.
func NewRunMetrics(next Observer) *RunMetrics {
	if next == nil {
		next = NopObserver{}
	}
	now := time.Now()
	return &RunMetrics{
		next:           next,
		start:          now,
		PhaseDurations: make(map[string]time.Duration),
		Changes:        make(map[Change]int),
	}
}

func (m *RunMetrics) PhaseStarted(ctx context.Context, phase string) {
	m.closePhase()
	m.currentPhase = phase
	m.phaseStart = time.Now()
	m.next.PhaseStarted(ctx, phase)
}

func (m *RunMetrics) ListEnsured(ctx context.Context, list domain.ListInfo) {
	m.ListsEnsured++
	if list.Created {
		m.ListsCreated++
	}
	m.next.ListEnsured(ctx, list)
}

func (m *RunMetrics) Changed(ctx context.Context, change Change, listTitle, target string) {
	m.Changes[change]++
	m.next.Changed(ctx, change, listTitle, target)
}

func (m *RunMetrics) closePhase() {
	if m.currentPhase != "" {
		m.PhaseDurations[m.currentPhase] += time.Since(m.phaseStart)
		m.currentPhase = ""
	}
}

// Finish closes the open phase and stores the total duration.
func (m *RunMetrics) Finish() {
	m.closePhase()
	m.TotalDuration = time.Since(m.start)
}

// Log writes the collected metrics.
func (m *RunMetrics) Log(logger *logging.Logger, failed bool) {
	logger.Info("Provisioning metrics",
		"failed", failed,
		"total_duration_ms", m.TotalDuration.Milliseconds(),
		"lists_ensured", m.ListsEnsured,
		"lists_created", m.ListsCreated)

	logger.Info("Phase timing",
		"lists_ms", m.PhaseDurations[PhaseLists].Milliseconds(),
		"fields_ms", m.PhaseDurations[PhaseFields].Milliseconds(),
		"fieldrefs_ms", m.PhaseDurations[PhaseFieldRefs].Milliseconds(),
		"views_ms", m.PhaseDurations[PhaseViews].Milliseconds())

	logger.Info("Change counts",
		"content_types_bound", m.Changes[ChangeContentTypeBound],
		"content_types_skipped", m.Changes[ChangeContentTypeSkipped],
		"content_types_removed", m.Changes[ChangeContentTypeRemoved],
		"fields_created", m.Changes[ChangeFieldCreated],
		"fields_recreated", m.Changes[ChangeFieldRecreated],
		"field_refs_updated", m.Changes[ChangeFieldRefUpdated],
		"views_created", m.Changes[ChangeViewCreated],
		"views_updated", m.Changes[ChangeViewUpdated])
}
