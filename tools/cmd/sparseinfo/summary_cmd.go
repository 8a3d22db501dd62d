package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/sparsemodel"
)

func newSummaryCmd(flags *modelFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <dir>",
		Short: "Print table sizes and reconstruction statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			s := m.Summary()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			printSummary(cmd.OutOrStdout(), s)
			printCameras(cmd.OutOrStdout(), m.Cameras)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func printSummary(w io.Writer, s sparsemodel.Summary) {
	fmt.Fprintf(w, "%-26s %d\n", "Cameras", s.Cameras)
	for _, name := range slices.Sorted(maps.Keys(s.CameraModels)) {
		fmt.Fprintf(w, "  %-24s %d\n", name, s.CameraModels[name])
	}
	fmt.Fprintf(w, "%-26s %d\n", "Images", s.Images)
	fmt.Fprintf(w, "%-26s %d\n", "Points", s.Points)
	fmt.Fprintf(w, "%-26s %d\n", "Observations", s.Observations)
	fmt.Fprintf(w, "%-26s %d (%.1f%%)\n", "Triangulated", s.Triangulated, s.TriangulatedRatio()*100)
	fmt.Fprintf(w, "%-26s %.2f\n", "Mean observations/image", s.MeanObservationsPerImage)
	fmt.Fprintf(w, "%-26s %.2f\n", "Mean track length", s.MeanTrackLength)
	fmt.Fprintf(w, "%-26s %.4f / %.4f / %.4f\n", "Reproj. error mean/med/max", s.MeanError, s.MedianError, s.MaxError)
	fmt.Fprintf(w, "%-26s (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n", "Bounds",
		s.Min.X, s.Min.Y, s.Min.Z, s.Max.X, s.Max.Y, s.Max.Z)
}

// printCameras lists each camera with its intrinsics labeled by the model's
// parameter names.
func printCameras(w io.Writer, cameras map[int32]sparsemodel.Camera) {
	if len(cameras) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, id := range slices.Sorted(maps.Keys(cameras)) {
		cam := cameras[id]
		model, _ := sparsemodel.LookupCameraModel(cam.Model)
		params := make([]string, len(cam.Params))
		for i, v := range cam.Params {
			name := fmt.Sprintf("p%d", i)
			if i < len(model.ParamNames) {
				name = model.ParamNames[i]
			}
			params[i] = fmt.Sprintf("%s=%g", name, v)
		}
		fmt.Fprintf(w, "Camera %d: %s %dx%d %s\n", id, cam.Model, cam.Width, cam.Height, strings.Join(params, " "))
	}
}
