package frame

import (
	"encoding/binary"
	"math"
)

const (
	// HeaderSize is the size of the frame id prefix in bytes.
	HeaderSize = 4
	// BytesPerPixel is the encoded size of one RGBA pixel.
	BytesPerPixel = 4
)

// RGBA is one pixel color. Every channel is in [0, 255] by construction.
type RGBA struct {
	R, G, B, A uint8
}

// Opaque returns a fully opaque pixel.
func Opaque(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 255}
}

// FromUnit converts channel values in [0, 1] to an RGBA pixel. Each value is
// scaled by 255 and truncated toward zero, so only 1 maps to 255. Values
// outside the range are clamped and NaN maps to 0.
func FromUnit(r, g, b, a float64) RGBA {
	return RGBA{R: unitToByte(r), G: unitToByte(g), B: unitToByte(b), A: unitToByte(a)}
}

func unitToByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Size returns the encoded size of a frame with numPixels pixels.
func Size(numPixels int) int {
	if numPixels < 0 {
		numPixels = 0
	}
	return HeaderSize + BytesPerPixel*numPixels
}

// Append encodes one frame onto dst and returns the extended slice.
func Append(dst []byte, id uint32, pixels []RGBA) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, id)
	for _, p := range pixels {
		dst = append(dst, p.R, p.G, p.B, p.A)
	}
	return dst
}

// Encode returns a freshly allocated encoding of one frame.
func Encode(id uint32, pixels []RGBA) []byte {
	return Append(make([]byte, 0, Size(len(pixels))), id, pixels)
}

// Decode parses one complete frame. len(data) must equal Size(numPixels).
func Decode(data []byte, numPixels int) (uint32, []RGBA, error) {
	if err := validatePixelCount(numPixels); err != nil {
		return 0, nil, err
	}
	if len(data) != Size(numPixels) {
		return 0, nil, ErrPixelCount
	}
	pixels := make([]RGBA, numPixels)
	id := decodeInto(data, pixels)
	return id, pixels, nil
}

func decodeInto(data []byte, pixels []RGBA) uint32 {
	id := binary.LittleEndian.Uint32(data[:HeaderSize])
	body := data[HeaderSize:]
	for i := range pixels {
		o := i * BytesPerPixel
		pixels[i] = RGBA{R: body[o], G: body[o+1], B: body[o+2], A: body[o+3]}
	}
	return id
}
