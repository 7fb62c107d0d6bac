package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shopfloor/pkg/learning"
	"shopfloor/pkg/protocol"
)

// learningsConfig holds flags for the learnings command.
type learningsConfig struct {
	module string
	ltype  string
	tail   int
}

// newLearningsCmd creates the "shopfloor learnings" subcommand.
func newLearningsCmd() *cobra.Command {
	var cfg learningsConfig

	cmd := &cobra.Command{
		Use:   "learnings",
		Short: "Query the learning/feedback log",
		Long:  "Displays recent learning entries: blockers, completions and the\nweight signal attached to each.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}

			db, err := openDB(paths.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := learning.NewReader(db).Query(context.Background(), learning.QueryOpts{
				Module:       cfg.module,
				LearningType: protocol.LearningType(cfg.ltype),
				Limit:        cfg.tail,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(w, "No learning entries")
				return nil
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%s  %-9s %+.1f  %s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Entry.LearningType,
					r.Entry.WeightAdjustment,
					r.Entry.Describe(),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.module, "module", "", "filter by operational category")
	cmd.Flags().StringVar(&cfg.ltype, "type", "", "filter by learning type (success, blocker, ...)")
	cmd.Flags().IntVar(&cfg.tail, "tail", 20, "number of recent entries to show")

	return cmd
}
