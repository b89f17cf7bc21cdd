package pattern

import "errors"

var (
	// ErrUnknownTuning is returned by TuningByName for an unregistered name.
	ErrUnknownTuning = errors.New("pattern: unknown tuning")
	// ErrInvalidTuning is returned when a tuning parameter is out of range.
	ErrInvalidTuning = errors.New("pattern: invalid tuning")
	// ErrNoPixels is returned for a renderer without pixels.
	ErrNoPixels = errors.New("pattern: pixel count must be positive")
)
