package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tools/internal/chart"
)

func newViewCmd(flags *modelFlags) *cobra.Command {
	var (
		out          string
		maxPoints    int
		frustumScale float64
	)

	cmd := &cobra.Command{
		Use:   "view <dir>",
		Short: "Render the point cloud and camera centers as an HTML 3D scatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			err = chart.Render(f, m, chart.Options{
				Title:        filepath.Base(filepath.Clean(args[0])),
				MaxPoints:    maxPoints,
				FrustumScale: frustumScale,
			})
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s (%d points, %d images)\n", out, len(m.Points), len(m.Images))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "sparse.html", "Output HTML file")
	cmd.Flags().IntVar(&maxPoints, "max-points", 20000, "Maximum number of points to render (0 renders all)")
	cmd.Flags().Float64Var(&frustumScale, "frustum-scale", 0, "Draw camera frustums at this depth (0 disables)")
	return cmd
}
