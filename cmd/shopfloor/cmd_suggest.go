package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shopfloor/pkg/learning"
	"shopfloor/pkg/suggestion"
)

// newSuggestCmd creates the "shopfloor suggest" command group.
func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List and act on station suggestions",
	}
	cmd.AddCommand(
		newSuggestListCmd(),
		newSuggestAcceptCmd(),
		newSuggestDismissCmd(),
	)
	return cmd
}

// withSuggestionService opens the station stores and hands a wired service
// to fn, closing everything afterwards.
func withSuggestionService(fn func(ctx context.Context, svc *suggestion.Service) error) error {
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

	company := cfg.Company
	recorder := learning.NewRecorder(learning.NewStore(db, func() string { return company }), learning.DefaultQueueSize)
	defer recorder.Close()

	svc := suggestion.NewService(suggestion.NewStore(db), recorder, cfg.Module, cfg.Module)
	return fn(context.Background(), svc)
}

// newSuggestListCmd creates "shopfloor suggest list".
func newSuggestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show active suggestions for this station",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSuggestionService(func(ctx context.Context, svc *suggestion.Service) error {
				list := svc.Suggestions(ctx)
				w := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(w, "No active suggestions")
					return nil
				}
				for _, s := range list {
					fmt.Fprintf(w, "%s  p%-2d %-12s %-9s %s\n",
						s.ID, s.Priority, s.Type, s.Status, s.Title)
				}
				return nil
			})
		},
	}
}

// newSuggestAcceptCmd creates "shopfloor suggest accept".
func newSuggestAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSuggestionService(func(ctx context.Context, svc *suggestion.Service) error {
				if err := svc.Accept(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Accepted %s\n", args[0])
				return nil
			})
		},
	}
}

// newSuggestDismissCmd creates "shopfloor suggest dismiss".
func newSuggestDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Dismiss a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSuggestionService(func(ctx context.Context, svc *suggestion.Service) error {
				if err := svc.Dismiss(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", args[0])
				return nil
			})
		},
	}
}
