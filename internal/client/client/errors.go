package client

import "errors"

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrInvalidArgument  = errors.New("invalid argument")
	// ErrConflict is returned when the oracle reused a correlation id that
	// is still pending.
	ErrConflict = errors.New("conflicting request")
)
