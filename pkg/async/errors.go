package async

import "errors"

var (
	// ErrTimeout is returned when an operation or a wait exceeds its time budget.
	ErrTimeout = errors.New("async: operation timed out")
	// ErrPanic is returned when the operation panicked.
	ErrPanic = errors.New("async: operation panicked")
	// ErrNoFutures is returned by ExecAny when no futures are given.
	ErrNoFutures = errors.New("async: no futures provided")
)
