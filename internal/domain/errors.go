package domain

import "errors"

var (
	// ErrInvalidArgument reports a value the caller should never have passed
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a lookup matches no record
	ErrNotFound = errors.New("not found")
)
