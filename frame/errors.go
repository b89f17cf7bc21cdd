package frame

import (
	"errors"
	"fmt"
)

var (
	errNilWriter = errors.New("frame: writer must not be nil")
	errNilReader = errors.New("frame: reader must not be nil")
)

// ErrPixelCount is returned when a frame does not carry the configured number
// of pixels.
var ErrPixelCount = errors.New("frame: pixel count mismatch")

func validatePixelCount(numPixels int) error {
	if numPixels < 0 {
		return fmt.Errorf("frame: pixel count must be >= 0: %d", numPixels)
	}
	return nil
}
