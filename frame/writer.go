package frame

import (
	"fmt"
	"io"
)

// Writer streams frames for a fixed pixel count. Each frame goes to the
// underlying writer in a single Write call so a consumer reading the pipe
// sees whole frames as soon as they are produced. Writer adds no buffering of
// its own.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w         io.Writer
	numPixels int
	buf       []byte

	frames uint64
	bytes  uint64
}

// NewWriter returns a Writer for frames of numPixels pixels.
func NewWriter(w io.Writer, numPixels int) (*Writer, error) {
	if w == nil {
		return nil, errNilWriter
	}
	if err := validatePixelCount(numPixels); err != nil {
		return nil, err
	}
	return &Writer{
		w:         w,
		numPixels: numPixels,
		buf:       make([]byte, 0, Size(numPixels)),
	}, nil
}

// WriteFrame encodes and writes one frame.
func (fw *Writer) WriteFrame(id uint32, pixels []RGBA) error {
	if len(pixels) != fw.numPixels {
		return fmt.Errorf("%w: got %d, want %d", ErrPixelCount, len(pixels), fw.numPixels)
	}

	fw.buf = Append(fw.buf[:0], id, pixels)

	n, err := fw.w.Write(fw.buf)
	fw.bytes += uint64(n)
	if err != nil {
		return fmt.Errorf("frame: write frame %d: %w", id, err)
	}
	if n != len(fw.buf) {
		return fmt.Errorf("frame: write frame %d: %w", id, io.ErrShortWrite)
	}

	fw.frames++
	return nil
}

// PixelCount returns the configured number of pixels per frame.
func (fw *Writer) PixelCount() int { return fw.numPixels }

// Frames returns the number of frames written successfully.
func (fw *Writer) Frames() uint64 { return fw.frames }

// Bytes returns the number of bytes handed to the underlying writer.
func (fw *Writer) Bytes() uint64 { return fw.bytes }
