package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopfloor/pkg/protocol"
)

// newInitCmd creates the "shopfloor init" subcommand.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the station state directory and database",
		Long:  "Creates $SHOPFLOOR_HOME, applies the database schema and\nmigrations, and writes a default config.toml when none exists.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}

			if err := os.MkdirAll(paths.Home, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", paths.Home, err)
			}

			db, err := openDB(paths.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.Exec(protocol.SchemaDDL); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			migrateDB(db)

			if _, err := os.Stat(paths.ConfigPath); os.IsNotExist(err) {
				if err := os.WriteFile(paths.ConfigPath, []byte(defaultConfig), 0o644); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config: %s\n", paths.ConfigPath)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized station state in %s\n", paths.Home)
			return nil
		},
	}
}
