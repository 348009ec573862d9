// Package config holds the user adjustable tab parameters and the per-object
// layer parameters a tab's thickness is derived from.
//
// Settings can be loaded from a TOML file. String setters mirror a text entry
// widget: an unparsable or out of range value is rejected with an
// InvalidSpec error and the previous value stays in force.
package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/soypat/antiwarp"
)

// firstLayerSquish thickens a tab's first layer so it survives the first
// layer's squish against the plate.
const firstLayerSquish = 1.2

// Layers are the process layer heights of an object.
type Layers struct {
	FirstLayerHeight float64 `toml:"first_layer_height"`
	LayerHeight      float64 `toml:"layer_height"`
}

// DefaultLayers are common FDM layer heights for a 0.4mm nozzle.
var DefaultLayers = Layers{FirstLayerHeight: 0.2, LayerHeight: 0.2}

// Validate checks that both heights are positive and finite.
func (l Layers) Validate() error {
	if !positive(l.FirstLayerHeight) || !positive(l.LayerHeight) {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("layer heights must be positive, got %g and %g", l.FirstLayerHeight, l.LayerHeight))
	}
	return nil
}

// CapHeight returns the thickness of a tab printed with count layers.
func (l Layers) CapHeight(count int) float64 {
	return l.FirstLayerHeight*firstLayerSquish + l.LayerHeight*float64(count-1)
}

// Settings are the user adjustable tab parameters.
type Settings struct {
	// PadDiameter of the tab's disc in mm.
	PadDiameter float64 `toml:"pad_diameter"`
	// HandleLength is the handle reach in mm.
	HandleLength float64 `toml:"handle_length"`
	// HandleWidth is the handle width in mm.
	HandleWidth float64 `toml:"handle_width"`
	// LayerCount is the number of layers the tab is printed with.
	LayerCount int `toml:"layer_count"`
	// InitialLayerSpeed overrides the first layer print speed of tabs in mm/s.
	// Zero keeps the process speed.
	InitialLayerSpeed float64 `toml:"initial_layer_speed"`
	// DirectShape joins the handle to the pad along tangent lines.
	DirectShape bool `toml:"direct_shape"`
	// SpacingFactor times PadDiameter is the minimum distance between
	// automatically placed tabs.
	SpacingFactor float64 `toml:"spacing_factor"`
	// AngleStep is the pad's angular resolution in degrees.
	AngleStep int `toml:"angle_step"`
	// AdhesionMargin grows an object's outline into the area tabs orient against.
	AdhesionMargin float64 `toml:"adhesion_margin"`
	// Layers used when the scene provides none for an object.
	Layers Layers `toml:"layers"`
}

// Default returns the settings a fresh install starts with.
func Default() Settings {
	return Settings{
		PadDiameter:    10,
		HandleLength:   3,
		HandleWidth:    2,
		LayerCount:     1,
		SpacingFactor:  antiwarp.DefaultSpacingFactor,
		AngleStep:      antiwarp.DefaultAngleStep,
		AdhesionMargin: 1,
		Layers:         DefaultLayers,
	}
}

// Load reads settings from a TOML file. Keys missing from the file keep
// their Default value.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Decode parses settings from TOML text over the defaults.
func Decode(text string) (Settings, error) {
	s := Default()
	if _, err := toml.Decode(text, &s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every field is in range.
func (s Settings) Validate() error {
	switch {
	case !positive(s.PadDiameter):
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("pad diameter must be positive, got %g", s.PadDiameter))
	case !nonNegative(s.HandleLength):
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("handle length must not be negative, got %g", s.HandleLength))
	case !nonNegative(s.HandleWidth):
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("handle width must not be negative, got %g", s.HandleWidth))
	case s.LayerCount < 1:
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("layer count must be at least 1, got %d", s.LayerCount))
	case !nonNegative(s.InitialLayerSpeed):
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("initial layer speed must not be negative, got %g", s.InitialLayerSpeed))
	case !positive(s.SpacingFactor):
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("spacing factor must be positive, got %g", s.SpacingFactor))
	case s.AngleStep <= 0 || 360%s.AngleStep != 0:
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("angle step must divide 360, got %d", s.AngleStep))
	case !nonNegative(s.AdhesionMargin):
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("adhesion margin must not be negative, got %g", s.AdhesionMargin))
	}
	return s.Layers.Validate()
}

// Spacing returns the minimum distance between automatically placed tabs.
func (s Settings) Spacing() float64 {
	return s.SpacingFactor * s.PadDiameter
}

// TabSpec returns the spec of a tab built with layers. The support depth and
// rotation are left for the placement to resolve.
func (s Settings) TabSpec(layers Layers) antiwarp.TabSpec {
	return antiwarp.TabSpec{
		PadDiameter:  s.PadDiameter,
		HandleLength: s.HandleLength,
		HandleWidth:  s.HandleWidth,
		AngleStep:    s.AngleStep,
		CapHeight:    layers.CapHeight(s.LayerCount),
		DirectShape:  s.DirectShape,
	}
}

// SetPadDiameter parses and sets the pad diameter. It must be positive.
func (s *Settings) SetPadDiameter(text string) error {
	v, err := parseFloat(text)
	if err != nil {
		return err
	}
	if !positive(v) {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("pad diameter must be positive, got %q", text))
	}
	s.PadDiameter = v
	return nil
}

// SetHandleLength parses and sets the handle length.
func (s *Settings) SetHandleLength(text string) error {
	v, err := parseFloat(text)
	if err != nil {
		return err
	}
	if !nonNegative(v) {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("handle length must not be negative, got %q", text))
	}
	s.HandleLength = v
	return nil
}

// SetHandleWidth parses and sets the handle width.
func (s *Settings) SetHandleWidth(text string) error {
	v, err := parseFloat(text)
	if err != nil {
		return err
	}
	if !nonNegative(v) {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("handle width must not be negative, got %q", text))
	}
	s.HandleWidth = v
	return nil
}

// SetLayerCount parses and sets the number of layers. It must be at least 1.
func (s *Settings) SetLayerCount(text string) error {
	v, err := strconv.Atoi(text)
	if err != nil {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("layer count %q is not an integer", text))
	}
	if v < 1 {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("layer count must be at least 1, got %d", v))
	}
	s.LayerCount = v
	return nil
}

// SetInitialLayerSpeed parses and sets the first layer speed override.
func (s *Settings) SetInitialLayerSpeed(text string) error {
	v, err := parseFloat(text)
	if err != nil {
		return err
	}
	if !nonNegative(v) {
		return antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("initial layer speed must not be negative, got %q", text))
	}
	s.InitialLayerSpeed = v
	return nil
}

func parseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, antiwarp.ErrMsg(antiwarp.InvalidSpec, fmt.Sprintf("%q is not a number", text))
	}
	return v, nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }
