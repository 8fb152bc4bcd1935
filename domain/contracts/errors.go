package contracts

import "errors"

// Common errors for domain contracts
var (
	// ErrNotFound occurs when the requested remote object or stored record does not exist
	ErrNotFound = errors.New("not found")
)
