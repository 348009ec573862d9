package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/antiwarp"
)

func TestDefaultValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if got := s.Spacing(); math.Abs(got-8) > 1e-12 {
		t.Errorf("default spacing %g, want 8", got)
	}
	spec := s.TabSpec(DefaultLayers)
	if err := spec.Validate(); err != nil {
		t.Errorf("default tab spec invalid: %v", err)
	}
}

func TestCapHeight(t *testing.T) {
	l := Layers{FirstLayerHeight: 0.3, LayerHeight: 0.2}
	for _, test := range []struct {
		count int
		want  float64
	}{
		{count: 1, want: 0.36},
		{count: 2, want: 0.56},
		{count: 5, want: 1.16},
	} {
		if got := l.CapHeight(test.count); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("%d layers: got cap height %g, want %g", test.count, got, test.want)
		}
	}
}

func TestSetters(t *testing.T) {
	for _, test := range []struct {
		name  string
		set   func(*Settings, string) error
		text  string
		ok    bool
		check func(Settings) bool
	}{
		{"pad", (*Settings).SetPadDiameter, "12.5", true, func(s Settings) bool { return s.PadDiameter == 12.5 }},
		{"pad zero", (*Settings).SetPadDiameter, "0", false, nil},
		{"pad negative", (*Settings).SetPadDiameter, "-4", false, nil},
		{"pad garbage", (*Settings).SetPadDiameter, "ten", false, nil},
		{"pad inf", (*Settings).SetPadDiameter, "+Inf", false, nil},
		{"length", (*Settings).SetHandleLength, "0", true, func(s Settings) bool { return s.HandleLength == 0 }},
		{"length negative", (*Settings).SetHandleLength, "-1", false, nil},
		{"width", (*Settings).SetHandleWidth, "4", true, func(s Settings) bool { return s.HandleWidth == 4 }},
		{"width NaN", (*Settings).SetHandleWidth, "NaN", false, nil},
		{"layers", (*Settings).SetLayerCount, "3", true, func(s Settings) bool { return s.LayerCount == 3 }},
		{"layers zero", (*Settings).SetLayerCount, "0", false, nil},
		{"layers float", (*Settings).SetLayerCount, "2.5", false, nil},
		{"speed", (*Settings).SetInitialLayerSpeed, "15", true, func(s Settings) bool { return s.InitialLayerSpeed == 15 }},
		{"speed negative", (*Settings).SetInitialLayerSpeed, "-15", false, nil},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := Default()
			err := test.set(&s, test.text)
			if test.ok {
				if err != nil {
					t.Fatal(err)
				}
				if !test.check(s) {
					t.Errorf("value %q not applied: %+v", test.text, s)
				}
				return
			}
			if !errors.Is(err, antiwarp.ErrInvalidSpec) {
				t.Errorf("want invalid spec error, got %v", err)
			}
			if s != Default() {
				t.Errorf("rejected value %q modified settings: %+v", test.text, s)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "antiwarp.toml")
	const text = `
pad_diameter = 14
direct_shape = true
layer_count = 2

[layers]
first_layer_height = 0.3
`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.PadDiameter = 14
	want.DirectShape = true
	want.LayerCount = 2
	want.Layers.FirstLayerHeight = 0.3
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, text := range []string{
		"pad_diameter = -1",
		"angle_step = 7",
		"[layers]\nlayer_height = 0",
	} {
		s, err := Decode(text)
		if !errors.Is(err, antiwarp.ErrInvalidSpec) {
			t.Errorf("%q: want invalid spec error, got %v", text, err)
		}
		if s != (Settings{}) {
			t.Errorf("%q: invalid settings returned alongside error: %+v", text, s)
		}
	}
	if _, err := Decode("pad_diameter = \"big\""); err == nil {
		t.Error("expected type error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
