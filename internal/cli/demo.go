package cli

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/helpers/hostmodel"
	"github.com/soypat/antiwarp/scene"
	"github.com/spf13/cobra"
)

type demoOpts struct {
	output   string
	png      string
	shape    string
	size     float64
	cells    int
	material string
}

func newDemoCmd(opts *tabOpts) *cobra.Command {
	d := demoOpts{
		output:   "demo.stl",
		shape:    "box",
		size:     40,
		cells:    hostmodel.DefaultCells,
		material: "abs",
	}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a host body and tab it automatically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			mat, err := hostmodel.MaterialByName(d.material)
			if err != nil {
				return err
			}
			body, err := hostmodel.Shape(d.shape, d.size)
			if err != nil {
				return err
			}
			prog := newProgress(logger)
			model := hostmodel.Mesh(mat.Compensate(body), d.cells)
			bb := body.BoundingBox().Size()
			logger.Info("host body", "shape", d.shape, "triangles", len(model),
				"contraction", mat.Contraction(math.Hypot(bb.X, bb.Y)))

			m := scene.NewMemory(s.AdhesionMargin)
			id := antiwarp.ObjectID(d.shape)
			if err := m.AddObject(id, model, s.Layers, scene.Roles{}); err != nil {
				return err
			}
			p := &scene.Placer{Scene: m, Process: m, Settings: s, Logger: logger}
			nodes, err := p.Auto(id)
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				return errors.New("no tabs placed")
			}
			if err := writeOutput(ctx, m, m.Triangles(), d.output, d.png); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d tabs on %s", len(nodes), d.shape))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&d.output, "output", "o", d.output, "output STL file for body and tabs")
	f.StringVar(&d.png, "png", "", "write a PNG preview")
	f.StringVar(&d.shape, "shape", d.shape, "host body: "+strings.Join(hostmodel.Shapes, ", "))
	f.Float64Var(&d.size, "size", d.size, "host body size in mm")
	f.IntVar(&d.cells, "cells", d.cells, "marching cubes resolution")
	f.StringVar(&d.material, "material", d.material, "filament the body is compensated for: pla, abs")
	return cmd
}
