package runs

import (
	"fmt"
	"time"
)

// RunLifecycle manages run status transitions
type RunLifecycle struct{}

// Start transitions a pending run to running
func (RunLifecycle) Start(run *Run) error {
	if run.Status != RunStatusPending {
		return fmt.Errorf("cannot start run in status: %s", run.Status)
	}
	run.Status = RunStatusRunning
	run.StartedAt = time.Now()
	run.BeginPhase("starting")
	return nil
}

// Complete transitions an active run to completed
func (l RunLifecycle) Complete(run *Run) error {
	if !run.IsActive() {
		return fmt.Errorf("cannot complete inactive run")
	}
	run.Status = RunStatusCompleted
	l.finalize(run, "completed", "Provisioning completed successfully")
	return nil
}

// Fail transitions an active run to failed with the error message
func (l RunLifecycle) Fail(run *Run, errorMsg string) error {
	if !run.IsActive() {
		return fmt.Errorf("cannot fail inactive run")
	}
	run.Status = RunStatusFailed
	run.Error = errorMsg
	l.finalize(run, "failed", fmt.Sprintf("Provisioning failed: %s", errorMsg))
	return nil
}

func (RunLifecycle) finalize(run *Run, phase, message string) {
	now := time.Now()
	run.CompletedAt = &now
	run.closePhase(now)
	run.State.Phase = phase
	run.AddMessage(fmt.Sprintf("[%s] %s", phase, message))
}
