package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shopfloor/pkg/learning"
)

// newStatusCmd creates the "shopfloor status" subcommand.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show station configuration and log counts",
		Long:  "Displays the configured station, suggestion queue depth,\nlearning log size and the accumulated weight signal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}
			cfg, err := loadConfig(paths.ConfigPath)
			if err != nil {
				return err
			}

			db, err := openDB(paths.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Station:  %s (%s)\n", cfg.StationID, cfg.MachineID)
			fmt.Fprintf(w, "Module:   %s\n", cfg.Module)

			var active, learnings, events int
			_ = db.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM suggestions WHERE status IN ('pending','shown')").Scan(&active)
			_ = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM learnings").Scan(&learnings)
			_ = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&events)

			weight, err := learning.NewReader(db).WeightSum(ctx, cfg.Module)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "Suggestions: %d active\n", active)
			fmt.Fprintf(w, "Learnings:   %d entries (weight %+.1f)\n", learnings, weight)
			fmt.Fprintf(w, "Events:      %d\n", events)
			return nil
		},
	}
}
