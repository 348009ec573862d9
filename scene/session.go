package scene

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Session is the list of tabs placed by a Placer, in placement order.
// The zero value is an empty session.
type Session struct {
	nodes []Node
}

// Add appends nodes to the session.
func (s *Session) Add(nodes ...Node) {
	s.nodes = append(s.nodes, nodes...)
}

// Nodes returns a copy of the placed nodes.
func (s *Session) Nodes() []Node {
	return append([]Node(nil), s.nodes...)
}

// Len returns the number of placed nodes.
func (s *Session) Len() int { return len(s.nodes) }

// Last returns the most recently placed node.
func (s *Session) Last() (Node, bool) {
	if len(s.nodes) == 0 {
		return Node{}, false
	}
	return s.nodes[len(s.nodes)-1], true
}

// Drop removes the node with the given ID and reports whether it was found.
func (s *Session) Drop(id uuid.UUID) bool {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Take empties the session and returns the nodes it held.
func (s *Session) Take() []Node {
	nodes := s.nodes
	s.nodes = nil
	return nodes
}

// Clear empties the session.
func (s *Session) Clear() { s.nodes = nil }

// Nearest returns the node whose pad center lies closest to at on the build
// plate and the distance to it.
func (s *Session) Nearest(at r2.Vec) (Node, float64, bool) {
	return nearestNode(s.nodes, at)
}

func nearestNode(nodes []Node, at r2.Vec) (Node, float64, bool) {
	pads := make(kdPads, len(nodes))
	for i, n := range nodes {
		c := n.PadCenter()
		pads[i] = kdPad{center: r2.Vec{X: c.X, Y: c.Y}, index: i}
	}
	i, d := nearestPad(pads, at)
	if i < 0 {
		return Node{}, d, false
	}
	return nodes[i], d, true
}
