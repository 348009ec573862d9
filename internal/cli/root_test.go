package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/helpers/hostmodel"
	"github.com/soypat/antiwarp/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd(&buf)
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(&buf)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// boxSTL writes a 20x10x5 box resting on the plate to a temporary file.
func boxSTL(t *testing.T) string {
	t.Helper()
	body, err := hostmodel.Box(20, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := render.CreateSTL(path, hostmodel.Mesh(body, 24)); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseVec(t *testing.T) {
	for _, test := range []struct {
		in   string
		want r3.Vec
		ok   bool
	}{
		{"1,2,3", r3.Vec{X: 1, Y: 2, Z: 3}, true},
		{" -1.5, 0 ,2e1", r3.Vec{X: -1.5, Z: 20}, true},
		{"1,2", r3.Vec{}, false},
		{"1,2,3,4", r3.Vec{}, false},
		{"a,2,3", r3.Vec{}, false},
		{"", r3.Vec{}, false},
	} {
		got, err := parseVec(test.in)
		if (err == nil) != test.ok {
			t.Errorf("%q: got error %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestSettingsOverrides(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "antiwarp.toml")
	if err := os.WriteFile(cfg, []byte("pad_diameter = 8\nhandle_length = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var opts tabOpts
	cmd := &cobra.Command{Use: "test"}
	opts.addFlags(cmd)
	if err := cmd.ParseFlags([]string{"--config", cfg, "--pad", "12", "--layers", "2", "--direct"}); err != nil {
		t.Fatal(err)
	}
	s, err := opts.settings(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if s.PadDiameter != 12 || s.HandleLength != 4 || s.LayerCount != 2 || !s.DirectShape {
		t.Errorf("got settings %+v", s)
	}
	if s.HandleWidth != 2 {
		t.Errorf("unset flag changed handle width to %g", s.HandleWidth)
	}
}

func TestSettingsInvalidFlag(t *testing.T) {
	var opts tabOpts
	cmd := &cobra.Command{Use: "test"}
	opts.addFlags(cmd)
	if err := cmd.ParseFlags([]string{"--layers", "two"}); err != nil {
		t.Fatal(err)
	}
	_, err := opts.settings(cmd)
	if !errors.Is(err, antiwarp.ErrInvalidSpec) {
		t.Fatalf("want invalid spec error, got %v", err)
	}
	if !strings.Contains(err.Error(), "--layers") {
		t.Errorf("error %q should name the flag", err)
	}
}

func TestAutoCommand(t *testing.T) {
	model := boxSTL(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "tabs.stl")
	png := filepath.Join(dir, "preview.png")
	logs, err := run(t, "auto", model, "-o", out, "--png", png)
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	tabs, err := render.ReadSTLFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(tabs) == 0 {
		t.Fatal("no tab triangles written")
	}
	if _, err := os.Stat(png); err != nil {
		t.Error(err)
	}
	if !strings.Contains(logs, "placed tabs") {
		t.Errorf("missing placement log in %q", logs)
	}
}

func TestPlaceCommand(t *testing.T) {
	model := boxSTL(t)
	out := filepath.Join(t.TempDir(), "tab.stl")
	logs, err := run(t, "place", model, "--at", "0,-5,0", "-o", out)
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	tab, err := render.ReadSTLFile(out)
	if err != nil {
		t.Fatal(err)
	}
	const want = 148 // default tab: 10mm pad at 10 degree resolution
	if len(tab) != want {
		t.Errorf("got %d triangles, want %d", len(tab), want)
	}

	if _, err := run(t, "place", model, "--at", "0,-5", "-o", out); err == nil {
		t.Error("want error for malformed anchor")
	}
	if _, err := run(t, "place", model, "--at", "0,-5,0", "--pad", "-3", "-o", out); !errors.Is(err, antiwarp.ErrInvalidSpec) {
		t.Errorf("want invalid spec error for negative pad, got %v", err)
	}
}

func TestDemoCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo.stl")
	logs, err := run(t, "demo", "--shape", "cylinder", "--size", "30", "--cells", "24", "--material", "pla", "-o", out, "-v")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	model, err := render.ReadSTLFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(model) < 148 {
		t.Errorf("demo mesh has %d triangles, want body and tabs", len(model))
	}
	if _, err := run(t, "demo", "--shape", "sphere", "-o", out); err == nil {
		t.Error("want error for unknown shape")
	}
	if _, err := run(t, "demo", "--material", "wood", "-o", out); err == nil {
		t.Error("want error for unknown material")
	}
}
