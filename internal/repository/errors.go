package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStaleStatus is returned when a conditional update matched the id
	// but the ride was no longer in the expected status.
	ErrStaleStatus = errors.New("ride status precondition failed")
)
