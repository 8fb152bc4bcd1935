package presenters

import (
	"errors"
	"strings"
	"time"

	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
)

// Run-related view data structures

// RunView represents a provisioning run for API responses and pages
type RunView struct {
	ID             string          `json:"id"`
	SiteURL        string          `json:"site_url"`
	Template       string          `json:"template,omitempty"`
	Status         string          `json:"status"`
	Phase          string          `json:"phase"`
	StartedAt      string          `json:"started_at"`
	CompletedAt    string          `json:"completed_at,omitempty"`
	Duration       string          `json:"duration"`
	IsActive       bool            `json:"is_active"`
	Error          string          `json:"error,omitempty"`
	Timeline       []PhaseDisplay  `json:"timeline,omitempty"`
	Stats          RunStatsDisplay `json:"stats"`
	Lists          []ListDisplay   `json:"lists,omitempty"`
	RecentMessages []string        `json:"recent_messages,omitempty"`
}

// PhaseDisplay represents a phase in the run timeline for UI display
type PhaseDisplay struct {
	Phase     string `json:"phase"`
	Started   string `json:"started"`
	Completed string `json:"completed,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// RunStatsDisplay represents run statistics for UI display
type RunStatsDisplay struct {
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

// ListDisplay represents a list ensured by a run
type ListDisplay struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Created bool   `json:"created"`
}

// RunListView represents a list of runs
type RunListView struct {
	Runs []*RunView `json:"runs"`
}

// ErrorView is the JSON body of a failed request
type ErrorView struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// RunPresenter transforms run domain data into UI-ready formats.
type RunPresenter struct{}

// NewRunPresenter creates a run presenter.
func NewRunPresenter() *RunPresenter {
	return &RunPresenter{}
}

// FormatRun converts a run to its view model with timeline, stats and lists.
func (p *RunPresenter) FormatRun(run *runs.Run) *RunView {
	if run == nil {
		return nil
	}

	view := &RunView{
		ID:             run.ID,
		SiteURL:        run.SiteURL,
		Template:       run.TemplateName,
		Status:         string(run.Status),
		Phase:          run.State.Phase,
		StartedAt:      run.StartedAt.Format("2006-01-02 15:04:05"),
		Duration:       run.Duration().Truncate(time.Millisecond).String(),
		IsActive:       run.IsActive(),
		Error:          run.Error,
		RecentMessages: run.State.Messages,
	}
	if run.CompletedAt != nil {
		view.CompletedAt = run.CompletedAt.Format("2006-01-02 15:04:05")
	}

	view.Timeline = make([]PhaseDisplay, len(run.State.Timeline))
	for i, phase := range run.State.Timeline {
		display := PhaseDisplay{
			Phase:   phase.Phase,
			Started: phase.Started.Format("15:04:05"),
		}
		if phase.Completed != nil {
			display.Completed = phase.Completed.Format("15:04:05")
			display.Duration = phase.Duration
		}
		view.Timeline[i] = display
	}

	stats := run.State.Stats
	view.Stats = RunStatsDisplay{
		ListsEnsured:        stats.ListsEnsured,
		ListsCreated:        stats.ListsCreated,
		ContentTypesBound:   stats.ContentTypesBound,
		ContentTypesSkipped: stats.ContentTypesSkipped,
		ContentTypesRemoved: stats.ContentTypesRemoved,
		FieldsCreated:       stats.FieldsCreated,
		FieldsRecreated:     stats.FieldsRecreated,
		FieldRefsUpdated:    stats.FieldRefsUpdated,
		ViewsCreated:        stats.ViewsCreated,
		ViewsUpdated:        stats.ViewsUpdated,
	}

	for _, l := range run.Lists {
		view.Lists = append(view.Lists, ListDisplay{ID: l.ID, Title: l.Title, URL: l.URL, Created: l.Created})
	}
	return view
}

// FormatRunList converts multiple runs to list view model.
func (p *RunPresenter) FormatRunList(list []*runs.Run) *RunListView {
	views := make([]*RunView, 0, len(list))
	for _, run := range list {
		if view := p.FormatRun(run); view != nil {
			views = append(views, view)
		}
	}
	return &RunListView{Runs: views}
}

// FormatError creates an error view; aggregated validation errors are split into problems.
func (p *RunPresenter) FormatError(err error) *ErrorView {
	if err == nil {
		return nil
	}
	view := &ErrorView{Error: err.Error()}

	var leaves []string
	collectLeaves(err, &leaves)
	if len(leaves) > 1 {
		view.Problems = leaves
		view.Error = firstLine(err.Error())
		if errors.Is(err, provisioning.ErrInvalidSchema) {
			view.Error = provisioning.ErrInvalidSchema.Error()
		}
	}
	return view
}

// collectLeaves walks errors.Join trees and gathers the messages of their members.
func collectLeaves(err error, out *[]string) {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		members := multi.Unwrap()
		joined := false
		for _, m := range members {
			if _, ok := m.(interface{ Unwrap() []error }); ok {
				joined = true
			}
		}
		// fmt.Errorf("%w: %w", sentinel, errors.Join(...)) nests the join one level down.
		if joined {
			for _, m := range members {
				if _, ok := m.(interface{ Unwrap() []error }); ok {
					collectLeaves(m, out)
				}
			}
			return
		}
		for _, m := range members {
			*out = append(*out, m.Error())
		}
		return
	}
	if inner := errors.Unwrap(err); inner != nil {
		collectLeaves(inner, out)
		return
	}
	*out = append(*out, err.Error())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
