package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shopfloor/internal/version"
)

// newRootCmd creates the root shopfloor command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shopfloor",
		Short:         "Shop-floor production control",
		Long:          "shopfloor drives one fabrication station through a planned run:\nslot tracking, foreman decisions, suggestions, and the learning log.",
		Version:       fmt.Sprintf("shopfloor %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newInitCmd(),
		newStatusCmd(),
		newRunCmd(),
		newSuggestCmd(),
		newLearningsCmd(),
		newPlaybookCmd(),
	)

	return cmd
}
