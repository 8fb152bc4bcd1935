package runs

import (
	"time"

	"spprovision/domain/provisioning"
)

// RunStatus represents the status of a provisioning run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

const maxMessages = 10

// PhaseInfo records when a provisioning phase started and finished.
type PhaseInfo struct {
	Phase     string     `json:"phase"`
	Started   time.Time  `json:"started"`
	Completed *time.Time `json:"completed,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// RunStats counts the remote changes made by a run.
type RunStats struct {
	ListsEnsured        int `json:"lists_ensured"`
	ListsCreated        int `json:"lists_created"`
	ContentTypesBound   int `json:"content_types_bound"`
	ContentTypesSkipped int `json:"content_types_skipped"`
	ContentTypesRemoved int `json:"content_types_removed"`
	FieldsCreated       int `json:"fields_created"`
	FieldsRecreated     int `json:"fields_recreated"`
	FieldRefsUpdated    int `json:"field_refs_updated"`
	ViewsCreated        int `json:"views_created"`
	ViewsUpdated        int `json:"views_updated"`
}

// RunState is the progress snapshot persisted as JSON with the run.
type RunState struct {
	Phase    string      `json:"phase"`
	Timeline []PhaseInfo `json:"timeline"`
	Stats    RunStats    `json:"stats"`
	Messages []string    `json:"messages,omitempty"`
}

// Run is one execution of a provisioning template against a site.
type Run struct {
	ID           string
	SiteURL      string
	TemplateName string
	Status       RunStatus
	StartedAt    time.Time
	CompletedAt  *time.Time
	State        RunState
	Lists        []provisioning.ListInfo
	Error        string
}

// NewRun creates a pending run.
func NewRun(id, siteURL, templateName string) *Run {
	return &Run{
		ID:           id,
		SiteURL:      siteURL,
		TemplateName: templateName,
		Status:       RunStatusPending,
		StartedAt:    time.Now(),
		State:        RunState{Phase: "pending", Timeline: []PhaseInfo{}},
	}
}

// IsActive returns true while the run is pending or running.
func (r *Run) IsActive() bool {
	return r.Status == RunStatusPending || r.Status == RunStatusRunning
}

// Duration returns the elapsed time, up to now for active runs.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}

// BeginPhase closes the current timeline entry and opens a new one.
func (r *Run) BeginPhase(phase string) {
	now := time.Now()
	r.closePhase(now)
	r.State.Phase = phase
	r.State.Timeline = append(r.State.Timeline, PhaseInfo{Phase: phase, Started: now})
}

// AddMessage appends to the rolling message buffer.
func (r *Run) AddMessage(msg string) {
	r.State.Messages = append(r.State.Messages, msg)
	if len(r.State.Messages) > maxMessages {
		r.State.Messages = r.State.Messages[len(r.State.Messages)-maxMessages:]
	}
}

func (r *Run) closePhase(now time.Time) {
	if len(r.State.Timeline) == 0 {
		return
	}
	last := &r.State.Timeline[len(r.State.Timeline)-1]
	if last.Completed == nil {
		last.Completed = &now
		last.Duration = now.Sub(last.Started).String()
	}
}
