package presenters

import (
	"spprovision/domain/runs"
)

// RunPresenterInterface defines the contract for run presentation logic.
type RunPresenterInterface interface {
	FormatRun(run *runs.Run) *RunView
	FormatRunList(list []*runs.Run) *RunListView
	FormatError(err error) *ErrorView
}

// Ensure RunPresenter implements the interface.
var _ RunPresenterInterface = (*RunPresenter)(nil)
