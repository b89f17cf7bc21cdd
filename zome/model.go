package zome

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// DefaultPath is the model file used when none is given.
const DefaultPath = "zome_model.json"

// Pixel is one output slot. Valid is false for an empty slot.
type Pixel struct {
	ID    int
	Point r3.Vector
	Valid bool
}

// Node is a vertex of the sculpture.
type Node struct {
	ID        int
	Point     r3.Vector
	Edges     []int
	Info      map[string]any
	OtherSide int // -1 when unset
}

// Edge is a strand between two nodes carrying an ordered run of pixels.
type Edge struct {
	ID        int
	StartNode int
	EndNode   int
	Pixels    []int
	Info      map[string]any
	OtherSide int // -1 when unset
}

// Model is the loaded sculpture geometry.
type Model struct {
	pixels  []Pixel
	nodes   []Node
	edges   []Edge
	fps     int
	options map[string]any

	min, max r3.Vector
}

// NumPixels returns the number of pixel slots, empty slots included.
func (m *Model) NumPixels() int { return len(m.pixels) }

// FPS returns the target frame rate.
func (m *Model) FPS() int { return m.fps }

// Pixels returns the pixel slots in output order. The slice must not be
// modified.
func (m *Model) Pixels() []Pixel { return m.pixels }

// Nodes returns the nodes. The slice must not be modified.
func (m *Model) Nodes() []Node { return m.nodes }

// Edges returns the edges. The slice must not be modified.
func (m *Model) Edges() []Edge { return m.edges }

// Options returns the pattern options object of the model file, or nil.
func (m *Model) Options() map[string]any { return m.options }

// Option returns a string option, or "" when absent or not a string.
func (m *Model) Option(key string) string {
	if v, ok := m.options[key].(string); ok {
		return v
	}
	return ""
}

// Bounds returns the axis-aligned bounding box of all valid pixels.
func (m *Model) Bounds() (min, max r3.Vector) { return m.min, m.max }

// Center returns the center of the pixel bounding box.
func (m *Model) Center() r3.Vector { return m.min.Add(m.max).Mul(0.5) }

// Height returns the largest node z coordinate.
func (m *Model) Height() float64 { return m.maxNodeCoord(func(p r3.Vector) float64 { return p.Z }) }

// WidthX returns the largest node x coordinate.
func (m *Model) WidthX() float64 { return m.maxNodeCoord(func(p r3.Vector) float64 { return p.X }) }

// WidthY returns the largest node y coordinate.
func (m *Model) WidthY() float64 { return m.maxNodeCoord(func(p r3.Vector) float64 { return p.Y }) }

func (m *Model) maxNodeCoord(axis func(r3.Vector) float64) float64 {
	if len(m.nodes) == 0 {
		return 0
	}
	out := math.Inf(-1)
	for _, n := range m.nodes {
		out = math.Max(out, axis(n.Point))
	}
	return out
}

// Strand returns the pixel ids of edge id in strand order.
func (m *Model) Strand(id int) ([]int, error) {
	if id < 0 || id >= len(m.edges) {
		return nil, fmt.Errorf("%w: edge %d of %d", ErrBadReference, id, len(m.edges))
	}
	return m.edges[id].Pixels, nil
}

// FrameSize returns the encoded frame size for this model in bytes.
func (m *Model) FrameSize() int { return 4 + 4*len(m.pixels) }

func (m *Model) computeBounds() {
	first := true
	for _, p := range m.pixels {
		if !p.Valid {
			continue
		}
		if first {
			m.min, m.max = p.Point, p.Point
			first = false
			continue
		}
		m.min = r3.Vector{X: math.Min(m.min.X, p.Point.X), Y: math.Min(m.min.Y, p.Point.Y), Z: math.Min(m.min.Z, p.Point.Z)}
		m.max = r3.Vector{X: math.Max(m.max.X, p.Point.X), Y: math.Max(m.max.Y, p.Point.Y), Z: math.Max(m.max.Z, p.Point.Z)}
	}
}

// MarshalJSON encodes the model back into the file layout.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.export())
}
