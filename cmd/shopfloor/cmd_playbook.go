package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shopfloor/pkg/playbook"
)

// newPlaybookCmd creates the "shopfloor playbook" subcommand.
func newPlaybookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playbook [edge-case-id]",
		Short: "Show operator guidance for recognized edge cases",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := playbook.Load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintf(w, "%d playbook entries. Pass an id for guidance.\n", reg.Len())
				return nil
			}

			e, ok := reg.Lookup(args[0])
			if !ok {
				fmt.Fprintf(w, "No guidance available for %q\n", args[0])
				return nil
			}
			fmt.Fprintf(w, "%s (%s)\n\n%s\n", e.Title, e.Severity, e.Guidance)
			return nil
		},
	}
}
