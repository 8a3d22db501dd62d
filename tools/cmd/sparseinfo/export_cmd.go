package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tools/internal/db"
)

func newExportCmd(flags *modelFlags) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the decoded tables into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			d, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.SaveModel(cmd.Context(), m); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cameras, %d images, %d points to %s\n",
				len(m.Cameras), len(m.Images), len(m.Points), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "model.db", "Path to the SQLite database")
	return cmd
}
