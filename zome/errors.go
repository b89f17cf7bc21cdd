package zome

import "errors"

var (
	// ErrNoPixels is returned for a model without pixel slots.
	ErrNoPixels = errors.New("zome: model has no pixels")
	// ErrInvalidFPS is returned when framesPerSecond is missing or not positive.
	ErrInvalidFPS = errors.New("zome: framesPerSecond must be > 0")
	// ErrBadReference is returned when an edge or node refers to a missing
	// node, edge or pixel.
	ErrBadReference = errors.New("zome: invalid reference")
	// ErrSidedness is returned when otherSide relationships are inconsistent.
	ErrSidedness = errors.New("zome: sidedness mismatch")
)
