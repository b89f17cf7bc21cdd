package frame

import (
	"errors"
	"fmt"
	"io"
)

// Reader decodes a frame stream for a known pixel count.
type Reader struct {
	r         io.Reader
	numPixels int
	buf       []byte
}

// NewReader returns a Reader for frames of numPixels pixels.
func NewReader(r io.Reader, numPixels int) (*Reader, error) {
	if r == nil {
		return nil, errNilReader
	}
	if err := validatePixelCount(numPixels); err != nil {
		return nil, err
	}
	return &Reader{r: r, numPixels: numPixels, buf: make([]byte, Size(numPixels))}, nil
}

// ReadFrame reads the next frame into pixels, which must hold PixelCount
// entries, and returns its id.
//
// It returns io.EOF when the stream ends cleanly between frames and
// io.ErrUnexpectedEOF when it ends inside a frame.
func (fr *Reader) ReadFrame(pixels []RGBA) (uint32, error) {
	if len(pixels) != fr.numPixels {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrPixelCount, len(pixels), fr.numPixels)
	}

	if _, err := io.ReadFull(fr.r, fr.buf); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, err
	}

	return decodeInto(fr.buf, pixels), nil
}

// PixelCount returns the configured number of pixels per frame.
func (fr *Reader) PixelCount() int { return fr.numPixels }
