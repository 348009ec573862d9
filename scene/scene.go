// Package scene connects the tab engine to a scene of printable objects.
//
// The Scene and Process interfaces are what the placement workflow needs from
// its host: object footprints, per-object layer heights and roles, and atomic
// insertion and removal of tab nodes. Memory implements both for command line
// use and tests.
package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/config"
)

// Scene provides object footprints and owns tab nodes.
type Scene interface {
	// Objects lists the printable objects in the scene.
	Objects() []antiwarp.ObjectID
	// Hull returns the convex outline of an object on the build plate.
	Hull(id antiwarp.ObjectID) (antiwarp.Footprint, error)
	// AdhesionArea returns the object's outline grown by the adhesion margin.
	AdhesionArea(id antiwarp.ObjectID) (antiwarp.Footprint, error)
	// Tabs lists the tab nodes in the scene, including those placed by
	// earlier sessions.
	Tabs() []Node
	// Insert adds all nodes or none of them.
	Insert(nodes ...Node) error
	// Remove removes all nodes or none of them.
	Remove(ids ...uuid.UUID) error
}

// Process provides per-object processing parameters.
type Process interface {
	Layers(id antiwarp.ObjectID) (config.Layers, error)
	Roles(id antiwarp.ObjectID) (Roles, error)
}

// Roles are the processing flags of an object. Objects with a role other
// than a plain printable body do not receive tabs.
type Roles struct {
	Infill       bool
	Support      bool
	AntiOverhang bool
	// Cutting is read but does not exclude an object from tabs.
	Cutting bool
	// Tab marks an object that is a tab itself.
	Tab bool
}

// Pickable reports whether a manual pick on the object may add a tab.
func (r Roles) Pickable() bool {
	return !r.Infill && !r.Support && !r.AntiOverhang
}

// Eligible reports whether the object is an automatic placement candidate.
func (r Roles) Eligible() bool {
	return r.Pickable() && !r.Tab
}

// Node is a placed tab owned by a scene.
type Node struct {
	ID uuid.UUID
	// Parent is the object the tab is attached to.
	Parent antiwarp.ObjectID
	antiwarp.PlacementResult
	// SpeedOverride is the first layer print speed of the tab in mm/s.
	// Zero keeps the process speed.
	SpeedOverride float64
}

var (
	// ErrUnknownObject is returned for object IDs absent from the scene.
	ErrUnknownObject = errors.New("unknown object")
	// ErrUnknownNode is returned when removing a node that is not in the scene.
	ErrUnknownNode = errors.New("unknown node")
)

func unknownObject(id antiwarp.ObjectID) error {
	return fmt.Errorf("%w %q", ErrUnknownObject, id)
}
