package domain

import "errors"

// Base error kinds. Repository and service sentinels wrap one of these so
// callers can dispatch with errors.Is without knowing the concrete sentinel.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)
