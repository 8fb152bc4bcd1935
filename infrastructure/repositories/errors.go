package repositories

import (
	"errors"
	"fmt"
)

// ErrMissingRunID occurs when a run without an ID is written
var ErrMissingRunID = errors.New("run ID is required")

// ErrRunNotFound wraps contracts.ErrNotFound with the ID that was looked up
type ErrRunNotFound struct {
	RunID string
	Err   error
}

func (e ErrRunNotFound) Error() string {
	return fmt.Sprintf("run %s: %v", e.RunID, e.Err)
}

func (e ErrRunNotFound) Unwrap() error {
	return e.Err
}
