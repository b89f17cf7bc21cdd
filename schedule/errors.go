package schedule

import "errors"

var (
	// ErrInvalidFPS is returned for a non-positive or non-finite frame rate.
	ErrInvalidFPS = errors.New("schedule: frame rate must be positive and finite")

	errNilEmit = errors.New("schedule: emit func must not be nil")
)
