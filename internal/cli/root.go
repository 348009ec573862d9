package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/config"
	"github.com/soypat/antiwarp/render"
	"github.com/soypat/antiwarp/scene"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	previewWidth  = 800
	previewHeight = 450
)

// Execute runs the antiwarp CLI with the process arguments.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(logw io.Writer) *cobra.Command {
	var (
		verbose bool
		opts    tabOpts
	)
	root := &cobra.Command{
		Use:          "antiwarp",
		Short:        "antiwarp adds anti-warping tabs to 3D printable models",
		Long:         `antiwarp places thin disc-shaped tabs on the build plate around the corners of printable models so their first layers hold down the parts that tend to lift while cooling.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(logw, level))
			cmd.SetContext(ctx)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	opts.addFlags(root)

	root.AddCommand(newAutoCmd(&opts))
	root.AddCommand(newPlaceCmd(&opts))
	root.AddCommand(newDemoCmd(&opts))
	return root
}

// tabOpts holds the persistent flags that shape every tab.
type tabOpts struct {
	configPath string
	pad        string
	length     string
	width      string
	layers     string
	speed      string
	direct     bool
}

// addFlags registers the tab flags as persistent flags of cmd. Numeric
// values are kept as text and validated by the settings setters.
func (o *tabOpts) addFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "TOML settings file")
	pf.StringVar(&o.pad, "pad", "", "pad diameter in mm")
	pf.StringVar(&o.length, "length", "", "handle length in mm")
	pf.StringVar(&o.width, "width", "", "handle width in mm")
	pf.StringVar(&o.layers, "layers", "", "number of layers tabs are printed with")
	pf.StringVar(&o.speed, "speed", "", "first layer print speed of tabs in mm/s")
	pf.BoolVar(&o.direct, "direct", false, "join handle and pad along tangent lines")
}

// settings loads the configured settings and applies flag overrides.
func (o *tabOpts) settings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Default()
	if o.configPath != "" {
		var err error
		s, err = config.Load(o.configPath)
		if err != nil {
			return config.Settings{}, err
		}
	}
	overrides := []struct {
		flag  string
		value string
		set   func(string) error
	}{
		{"pad", o.pad, s.SetPadDiameter},
		{"length", o.length, s.SetHandleLength},
		{"width", o.width, s.SetHandleWidth},
		{"layers", o.layers, s.SetLayerCount},
		{"speed", o.speed, s.SetInitialLayerSpeed},
	}
	for _, ov := range overrides {
		if !cmd.Flags().Changed(ov.flag) {
			continue
		}
		if err := ov.set(ov.value); err != nil {
			return config.Settings{}, fmt.Errorf("--%s: %w", ov.flag, err)
		}
	}
	if cmd.Flags().Changed("direct") {
		s.DirectShape = o.direct
	}
	return s, nil
}

// newPlacer returns a placer over a scene holding one object per STL file.
// Objects are identified by their path.
func newPlacer(ctx context.Context, s config.Settings, paths []string) (*scene.Placer, *scene.Memory, error) {
	logger := loggerFromContext(ctx)
	m := scene.NewMemory(s.AdhesionMargin)
	for _, path := range paths {
		model, err := render.ReadSTLFile(path)
		if err != nil {
			return nil, nil, err
		}
		if err := m.AddObject(antiwarp.ObjectID(path), model, s.Layers, scene.Roles{}); err != nil {
			return nil, nil, err
		}
		logger.Debug("loaded object", "path", path, "triangles", len(model))
	}
	return &scene.Placer{Scene: m, Process: m, Settings: s, Logger: logger}, m, nil
}

// writeOutput writes model to an STL file and, if png is set, a preview of
// the whole scene.
func writeOutput(ctx context.Context, m *scene.Memory, model []r3.Triangle, output, png string) error {
	logger := loggerFromContext(ctx)
	if err := render.CreateSTL(output, model); err != nil {
		return err
	}
	logger.Debug("wrote mesh", "path", output, "triangles", len(model))
	if png == "" {
		return nil
	}
	if err := render.SavePNG(png, m.Triangles(), previewWidth, previewHeight, render.DefaultView); err != nil {
		return fmt.Errorf("preview %s: %w", filepath.Base(png), err)
	}
	logger.Debug("wrote preview", "path", png)
	return nil
}

func tabTriangles(nodes []scene.Node) []r3.Triangle {
	var model []r3.Triangle
	for _, n := range nodes {
		model = append(model, n.WorldTriangles()...)
	}
	return model
}

// parseVec parses a point written as "x,y,z".
func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("point %q: want x,y,z", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("point %q: %w", s, err)
		}
		v[i] = f
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}
