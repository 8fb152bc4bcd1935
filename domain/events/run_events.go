package events

import (
	"time"

	"spprovision/domain/runs"
)

// RunCompletedEvent represents a provisioning run that finished successfully
type RunCompletedEvent struct {
	Run       *runs.Run
	Timestamp time.Time
}

// RunFailedEvent represents a provisioning run that stopped on an error
type RunFailedEvent struct {
	Run       *runs.Run
	Error     string
	Timestamp time.Time
}
