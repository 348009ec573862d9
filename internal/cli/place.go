package cli

import (
	"errors"
	"fmt"

	"github.com/soypat/antiwarp"
	"github.com/soypat/antiwarp/scene"
	"github.com/spf13/cobra"
)

func newAutoCmd(opts *tabOpts) *cobra.Command {
	var output, png string
	cmd := &cobra.Command{
		Use:   "auto <model.stl>...",
		Short: "Place tabs along the outline of each model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(ctx))
			p, m, err := newPlacer(ctx, s, args)
			if err != nil {
				return err
			}
			nodes, err := p.Auto()
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				return errors.New("no tabs placed")
			}
			if err := writeOutput(ctx, m, tabTriangles(nodes), output, png); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Placed %d tabs on %d objects", len(nodes), len(args)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "tabs.stl", "output STL file for the tabs")
	cmd.Flags().StringVar(&png, "png", "", "write a PNG preview of models and tabs")
	return cmd
}

func newPlaceCmd(opts *tabOpts) *cobra.Command {
	var output, png, at string
	cmd := &cobra.Command{
		Use:   "place <model.stl>",
		Short: "Place a single tab at a point on a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			anchor, err := parseVec(at)
			if err != nil {
				return err
			}
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			p, m, err := newPlacer(ctx, s, args)
			if err != nil {
				return err
			}
			action, n, err := p.Pick(antiwarp.ObjectID(args[0]), anchor)
			if err != nil {
				return err
			}
			if action != scene.Added {
				return fmt.Errorf("no tab placed at %v: pick %v", anchor, action)
			}
			if err := writeOutput(ctx, m, n.WorldTriangles(), output, png); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("placed tab", "at", anchor, "angle", n.Spec.RotationAngle)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "tab.stl", "output STL file for the tab")
	cmd.Flags().StringVar(&png, "png", "", "write a PNG preview of model and tab")
	cmd.Flags().StringVar(&at, "at", "", "tab anchor as x,y,z in mm")
	cmd.MarkFlagRequired("at")
	return cmd
}
