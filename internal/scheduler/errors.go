package scheduler

import "errors"

var (
	// ErrNoSchedulableItems means no item had both a deadline and remaining effort.
	ErrNoSchedulableItems = errors.New("no schedulable items")

	// ErrCancelled is returned when the run's context ends before it completes.
	ErrCancelled = errors.New("scheduling cancelled")

	// ErrInternal signals a broken engine invariant.
	ErrInternal = errors.New("internal scheduling error")
)
