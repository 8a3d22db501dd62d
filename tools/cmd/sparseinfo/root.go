package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yyyoichi/sparsemodel"
)

type modelFlags struct {
	validate   bool
	sequential bool
	verbose    bool
}

func execute() int {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var flags modelFlags

	cmd := &cobra.Command{
		Use:           "sparseinfo",
		Short:         "Inspect binary sparse reconstruction models",
		Long:          "Reads cameras.bin, images.bin and points3D.bin from a sparse model directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&flags.validate, "validate", false, "Fail on references between tables that do not resolve")
	cmd.PersistentFlags().BoolVar(&flags.sequential, "sequential", false, "Decode the three files one after another")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log decode diagnostics to stderr")

	cmd.AddCommand(
		newSummaryCmd(&flags),
		newViewCmd(&flags),
		newExportCmd(&flags),
	)
	return cmd
}

func loadModel(ctx context.Context, dir string, flags *modelFlags) (*sparsemodel.Model, error) {
	var opts []sparsemodel.Option
	if flags.validate {
		opts = append(opts, sparsemodel.WithValidation())
	}
	if flags.sequential {
		opts = append(opts, sparsemodel.WithSequential())
	}
	if flags.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, sparsemodel.WithLogger(logger))
	}
	m, err := sparsemodel.LoadDir(ctx, dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	return m, nil
}
