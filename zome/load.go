package zome

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r3"
)

type fileModel struct {
	Model struct {
		Nodes  []fileNode    `json:"nodes"`
		Pixels []*[3]float64 `json:"pixels"`
		Edges  []fileEdge    `json:"edges"`
	} `json:"model"`
	FramesPerSecond int            `json:"framesPerSecond"`
	Options         map[string]any `json:"options,omitempty"`
}

type fileNode struct {
	Point     [3]float64     `json:"point"`
	Edges     []int          `json:"edges,omitempty"`
	Info      map[string]any `json:"info,omitempty"`
	OtherSide *int           `json:"otherSide,omitempty"`
}

type fileEdge struct {
	StartNode int            `json:"startNode"`
	EndNode   int            `json:"endNode"`
	Pixels    []int          `json:"pixels"`
	Info      map[string]any `json:"info,omitempty"`
	OtherSide *int           `json:"otherSide,omitempty"`
}

// Load reads and validates the model file at path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("zome: open model: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("zome: load %s: %w", path, err)
	}
	return m, nil
}

// Read decodes and validates a model from r.
func Read(r io.Reader) (*Model, error) {
	var fm fileModel
	if err := json.NewDecoder(r).Decode(&fm); err != nil {
		return nil, fmt.Errorf("zome: decode model: %w", err)
	}
	return build(&fm)
}

// Parse decodes and validates a model from data.
func Parse(data []byte) (*Model, error) {
	var fm fileModel
	if err := json.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("zome: decode model: %w", err)
	}
	return build(&fm)
}

func build(fm *fileModel) (*Model, error) {
	if len(fm.Model.Pixels) == 0 {
		return nil, ErrNoPixels
	}
	if fm.FramesPerSecond <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFPS, fm.FramesPerSecond)
	}

	m := &Model{
		pixels:  make([]Pixel, len(fm.Model.Pixels)),
		nodes:   make([]Node, len(fm.Model.Nodes)),
		edges:   make([]Edge, len(fm.Model.Edges)),
		fps:     fm.FramesPerSecond,
		options: fm.Options,
	}

	for i, p := range fm.Model.Pixels {
		m.pixels[i] = Pixel{ID: i}
		if p != nil {
			m.pixels[i].Point = r3.Vector{X: p[0], Y: p[1], Z: p[2]}
			m.pixels[i].Valid = true
		}
	}

	for i, n := range fm.Model.Nodes {
		m.nodes[i] = Node{
			ID:        i,
			Point:     r3.Vector{X: n.Point[0], Y: n.Point[1], Z: n.Point[2]},
			Info:      n.Info,
			OtherSide: -1,
		}
		if n.OtherSide != nil {
			if *n.OtherSide < 0 || *n.OtherSide >= len(fm.Model.Nodes) {
				return nil, fmt.Errorf("%w: node %d other side %d", ErrBadReference, i, *n.OtherSide)
			}
			m.nodes[i].OtherSide = *n.OtherSide
		}
	}

	for i, e := range fm.Model.Edges {
		if e.StartNode < 0 || e.StartNode >= len(m.nodes) || e.EndNode < 0 || e.EndNode >= len(m.nodes) {
			return nil, fmt.Errorf("%w: edge %d nodes %d-%d", ErrBadReference, i, e.StartNode, e.EndNode)
		}
		for _, px := range e.Pixels {
			if px < 0 || px >= len(m.pixels) {
				return nil, fmt.Errorf("%w: edge %d pixel %d", ErrBadReference, i, px)
			}
		}

		m.edges[i] = Edge{
			ID:        i,
			StartNode: e.StartNode,
			EndNode:   e.EndNode,
			Pixels:    append([]int(nil), e.Pixels...),
			Info:      e.Info,
			OtherSide: -1,
		}
		if e.OtherSide != nil {
			if *e.OtherSide < 0 || *e.OtherSide >= len(fm.Model.Edges) {
				return nil, fmt.Errorf("%w: edge %d other side %d", ErrBadReference, i, *e.OtherSide)
			}
			m.edges[i].OtherSide = *e.OtherSide
		}

		// Node edge lists are derived from the edges, not taken from the file.
		m.nodes[e.StartNode].Edges = append(m.nodes[e.StartNode].Edges, i)
		m.nodes[e.EndNode].Edges = append(m.nodes[e.EndNode].Edges, i)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	m.computeBounds()
	return m, nil
}

func (m *Model) export() *fileModel {
	fm := &fileModel{FramesPerSecond: m.fps, Options: m.options}

	fm.Model.Pixels = make([]*[3]float64, len(m.pixels))
	for i, p := range m.pixels {
		if p.Valid {
			fm.Model.Pixels[i] = &[3]float64{p.Point.X, p.Point.Y, p.Point.Z}
		}
	}

	fm.Model.Nodes = make([]fileNode, len(m.nodes))
	for i, n := range m.nodes {
		fm.Model.Nodes[i] = fileNode{
			Point:     [3]float64{n.Point.X, n.Point.Y, n.Point.Z},
			Edges:     n.Edges,
			Info:      n.Info,
			OtherSide: optionalID(n.OtherSide),
		}
	}

	fm.Model.Edges = make([]fileEdge, len(m.edges))
	for i, e := range m.edges {
		fm.Model.Edges[i] = fileEdge{
			StartNode: e.StartNode,
			EndNode:   e.EndNode,
			Pixels:    e.Pixels,
			Info:      e.Info,
			OtherSide: optionalID(e.OtherSide),
		}
	}

	return fm
}

func optionalID(id int) *int {
	if id < 0 {
		return nil
	}
	return &id
}
