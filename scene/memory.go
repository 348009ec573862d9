package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/config"
	"github.com/soypat/antiwarp/footprint"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ Scene   = (*Memory)(nil)
	_ Process = (*Memory)(nil)
)

// Memory is an in-memory scene of triangle mesh objects.
// Footprints are computed from the object meshes on every query.
type Memory struct {
	margin   float64
	objects  map[antiwarp.ObjectID]object
	order    []antiwarp.ObjectID
	tabs     map[uuid.UUID]Node
	tabOrder []uuid.UUID
}

type object struct {
	model  []r3.Triangle
	layers config.Layers
	roles  Roles
}

// NewMemory returns an empty scene whose adhesion areas are object hulls
// grown by margin.
func NewMemory(margin float64) *Memory {
	return &Memory{
		margin:  margin,
		objects: make(map[antiwarp.ObjectID]object),
		tabs:    make(map[uuid.UUID]Node),
	}
}

// AddObject adds a printable object to the scene.
func (m *Memory) AddObject(id antiwarp.ObjectID, model []r3.Triangle, layers config.Layers, roles Roles) error {
	if _, ok := m.objects[id]; ok {
		return fmt.Errorf("object %q already in scene", id)
	}
	if err := layers.Validate(); err != nil {
		return fmt.Errorf("object %q: %w", id, err)
	}
	m.objects[id] = object{model: model, layers: layers, roles: roles}
	m.order = append(m.order, id)
	return nil
}

// Objects returns object IDs in insertion order.
func (m *Memory) Objects() []antiwarp.ObjectID {
	return append([]antiwarp.ObjectID(nil), m.order...)
}

// Tabs returns the tab nodes in insertion order.
func (m *Memory) Tabs() []Node {
	nodes := make([]Node, len(m.tabOrder))
	for i, id := range m.tabOrder {
		nodes[i] = m.tabs[id]
	}
	return nodes
}

// Hull returns the convex outline of an object on the build plate.
func (m *Memory) Hull(id antiwarp.ObjectID) (antiwarp.Footprint, error) {
	obj, ok := m.objects[id]
	if !ok {
		return nil, unknownObject(id)
	}
	return footprint.Hull(obj.model), nil
}

// AdhesionArea returns the object's hull grown by the scene's margin.
func (m *Memory) AdhesionArea(id antiwarp.ObjectID) (antiwarp.Footprint, error) {
	obj, ok := m.objects[id]
	if !ok {
		return nil, unknownObject(id)
	}
	return footprint.AdhesionArea(obj.model, m.margin)
}

// Layers returns the layer heights an object is printed with.
func (m *Memory) Layers(id antiwarp.ObjectID) (config.Layers, error) {
	obj, ok := m.objects[id]
	if !ok {
		return config.Layers{}, unknownObject(id)
	}
	return obj.layers, nil
}

// Roles returns the processing roles of an object.
func (m *Memory) Roles(id antiwarp.ObjectID) (Roles, error) {
	obj, ok := m.objects[id]
	if !ok {
		return Roles{}, unknownObject(id)
	}
	return obj.roles, nil
}

// Insert adds tab nodes. Nothing is inserted if any node has a duplicate ID
// or an unknown parent.
func (m *Memory) Insert(nodes ...Node) error {
	seen := make(map[uuid.UUID]bool, len(nodes))
	for _, n := range nodes {
		if _, ok := m.tabs[n.ID]; ok || seen[n.ID] {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		if _, ok := m.objects[n.Parent]; !ok {
			return fmt.Errorf("node %s: %w", n.ID, unknownObject(n.Parent))
		}
		seen[n.ID] = true
	}
	for _, n := range nodes {
		m.tabs[n.ID] = n
		m.tabOrder = append(m.tabOrder, n.ID)
	}
	return nil
}

// Remove removes tab nodes. Nothing is removed if any ID is unknown.
func (m *Memory) Remove(ids ...uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.tabs[id]; !ok {
			return fmt.Errorf("%w %s", ErrUnknownNode, id)
		}
		drop[id] = true
	}
	kept := m.tabOrder[:0]
	for _, id := range m.tabOrder {
		if drop[id] {
			delete(m.tabs, id)
			continue
		}
		kept = append(kept, id)
	}
	m.tabOrder = kept
	return nil
}

// Triangles returns the world space triangles of all objects followed by
// those of all tabs.
func (m *Memory) Triangles() []r3.Triangle {
	var tris []r3.Triangle
	for _, id := range m.order {
		tris = append(tris, m.objects[id].model...)
	}
	for _, n := range m.Tabs() {
		tris = append(tris, n.WorldTriangles()...)
	}
	return tris
}
