// Package antiwarp builds the triangle meshes of anti-warping tabs and decides
// where and how they attach to a printable model.
//
// A tab is a thin disc (the pad) joined to the model by a short box (the
// handle). The package is made of four pure pieces:
//
//   - TangentPoints computes circle tangents used by the direct-shape profile.
//   - Build assembles the tab mesh from a TabSpec.
//   - ResolveAngle orients a tab against the nearest edge of a Footprint.
//   - Plan walks footprint boundaries and emits placement requests at a
//     minimum spacing.
//
// Place chains ResolveAngle and Build for a single request. World space is
// z-up with the build plate on the XY plane.
package antiwarp

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	pi      = math.Pi
	tau     = 2 * pi
	epsilon = 1e-12
)

const (
	// DefaultAngleStep is the angular resolution in degrees of the pad's boundary.
	DefaultAngleStep = 10
	// DefaultSpacingFactor multiplies the pad diameter to obtain the minimum
	// distance between automatically placed tabs.
	DefaultSpacingFactor = 0.8
)

// ObjectID identifies a host object in the scene.
type ObjectID string

// Footprint is an ordered closed polygon on the build plate. The order of the
// points defines edge adjacency.
type Footprint []r2.Vec

// TabSpec holds the parameters of a single tab build.
type TabSpec struct {
	// PadDiameter is the diameter of the disc pad.
	PadDiameter float64
	// HandleLength is the reach of the handle from the anchor to the pad.
	HandleLength float64
	// HandleWidth is the full width of the handle.
	HandleWidth float64
	// AngleStep is the pad's angular resolution in degrees. It must divide 360.
	AngleStep int
	// SupportDepth is the vertical distance from the anchor down to the plate.
	SupportDepth float64
	// CapHeight is the thickness of the tab.
	CapHeight float64
	// DirectShape joins the handle's outer edges to the pad along tangent lines.
	DirectShape bool
	// RotationAngle orients the tab about the vertical axis, in radians.
	RotationAngle float64
}

// Validate checks the spec for values Build cannot work with.
func (spec TabSpec) Validate() error {
	switch {
	case !(spec.PadDiameter > 0) || math.IsInf(spec.PadDiameter, 0):
		return geomErr(InvalidSpec, "pad diameter must be positive and finite, got %g", spec.PadDiameter)
	case !(spec.HandleLength >= 0) || math.IsInf(spec.HandleLength, 0):
		return geomErr(InvalidSpec, "handle length must be non-negative and finite, got %g", spec.HandleLength)
	case !(spec.HandleWidth >= 0) || math.IsInf(spec.HandleWidth, 0):
		return geomErr(InvalidSpec, "handle width must be non-negative and finite, got %g", spec.HandleWidth)
	case !(spec.CapHeight > 0) || math.IsInf(spec.CapHeight, 0):
		return geomErr(InvalidSpec, "cap height must be positive and finite, got %g", spec.CapHeight)
	case math.IsNaN(spec.SupportDepth) || math.IsInf(spec.SupportDepth, 0):
		return geomErr(InvalidSpec, "support depth must be finite, got %g", spec.SupportDepth)
	case math.IsNaN(spec.RotationAngle) || math.IsInf(spec.RotationAngle, 0):
		return geomErr(InvalidSpec, "rotation angle must be finite, got %g", spec.RotationAngle)
	case spec.AngleStep <= 0 || 360%spec.AngleStep != 0:
		return geomErr(InvalidSpec, "angle step must be a positive divisor of 360, got %d", spec.AngleStep)
	}
	return nil
}

// roundMM rounds a length to the nearest whole millimetre, ties to even.
func roundMM(v float64) float64 { return math.RoundToEven(v) }
