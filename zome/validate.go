package zome

import "fmt"

// Validate checks the otherSide relationships: they must be symmetric, and an
// edge's other side must join the other sides of its own endpoints.
func (m *Model) Validate() error {
	for _, n := range m.nodes {
		if n.OtherSide < 0 {
			continue
		}
		if m.nodes[n.OtherSide].OtherSide != n.ID {
			return fmt.Errorf("%w: node %d -> %d is not symmetric", ErrSidedness, n.ID, n.OtherSide)
		}
	}

	for _, e := range m.edges {
		if e.OtherSide < 0 {
			continue
		}
		o := m.edges[e.OtherSide]
		if o.OtherSide != e.ID {
			return fmt.Errorf("%w: edge %d -> %d is not symmetric", ErrSidedness, e.ID, e.OtherSide)
		}

		oStart := m.nodes[o.StartNode].OtherSide
		oEnd := m.nodes[o.EndNode].OtherSide
		same := e.StartNode == oStart && e.EndNode == oEnd
		flipped := e.StartNode == oEnd && e.EndNode == oStart
		if !same && !flipped {
			return fmt.Errorf("%w: edge %d endpoints do not correspond to edge %d", ErrSidedness, e.ID, o.ID)
		}
	}

	return nil
}

// SidedCounts returns how many nodes and edges have an other side.
func (m *Model) SidedCounts() (nodes, edges int) {
	for _, n := range m.nodes {
		if n.OtherSide >= 0 {
			nodes++
		}
	}
	for _, e := range m.edges {
		if e.OtherSide >= 0 {
			edges++
		}
	}
	return nodes, edges
}
