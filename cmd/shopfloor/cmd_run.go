package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"shopfloor/pkg/foreman"
	"shopfloor/pkg/learning"
	"shopfloor/pkg/playbook"
	"shopfloor/pkg/protocol"
	"shopfloor/pkg/slot"
	"shopfloor/pkg/station"
	"shopfloor/pkg/suggestion"
)

// runConfig holds flags for the run command.
type runConfig struct {
	autoRemove bool
	barCode    string
	itemID     string
}

// newRunCmd creates the "shopfloor run" subcommand. It drives a full run
// through the station controller: every stroke and removal goes through the
// same facade the operator UI uses, so blockers, completion events and
// suggestion state all behave as on the floor.
func newRunCmd() *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Execute a run plan against the station",
		Long:  "Loads a run plan, steps the slot state machine stroke by stroke,\nand records completion in the learning log. With --auto-remove,\nfinished partial bars are removed as soon as they become removable.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			if !plan.Feasible {
				return fmt.Errorf("plan %s is not feasible", args[0])
			}
			if len(plan.Specs) == 0 {
				return fmt.Errorf("plan %s has no slots", args[0])
			}

			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}
			stationCfg, err := loadConfig(paths.ConfigPath)
			if err != nil {
				return err
			}

			db, err := openDB(paths.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			reg, err := playbook.Load()
			if err != nil {
				return err
			}

			company := stationCfg.Company
			store := learning.NewStore(db, func() string { return company })
			recorder := learning.NewRecorder(store, learning.DefaultQueueSize)
			defer recorder.Close()

			svc := suggestion.NewService(suggestion.NewStore(db), recorder, stationCfg.Module, stationCfg.Module)

			ctrl := station.New(station.Config{
				Module:    stationCfg.Module,
				MachineID: stationCfg.MachineID,
				Company:   company,
			}, reg, recorder, svc)

			ctrl.UpdateContext(&foreman.Context{
				Module:        stationCfg.Module,
				MachineID:     stationCfg.MachineID,
				MachineStatus: foreman.MachineRunning,
				CurrentItem:   &foreman.Item{ID: cfg.itemID, BarCode: cfg.barCode},
			})

			return executeRun(cmd.OutOrStdout(), ctrl, plan, cfg.autoRemove)
		},
	}

	cmd.Flags().BoolVar(&cfg.autoRemove, "auto-remove", false, "remove partial bars as soon as they finish")
	cmd.Flags().StringVar(&cfg.barCode, "bar-code", "", "material identifier of the loaded bar")
	cmd.Flags().StringVar(&cfg.itemID, "item", "", "identifier of the current work item")

	return cmd
}

// loadPlan reads and parses a run plan YAML file.
func loadPlan(path string) (slot.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return slot.Plan{}, fmt.Errorf("read plan %s: %w", path, err)
	}
	var plan slot.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return slot.Plan{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return plan, nil
}

// executeRun steps the controller until the board converges or stalls.
func executeRun(w io.Writer, ctrl *station.Controller, plan slot.Plan, autoRemove bool) error {
	ctrl.StartRun(plan)

	totalCuts := 0
	for _, s := range plan.Specs {
		cuts := s.PlannedCuts
		if cuts < 1 {
			cuts = 1
		}
		totalCuts += cuts
	}

	for i := 0; i < totalCuts; i++ {
		ctrl.RecordStroke()
		printBoard(w, ctrl, fmt.Sprintf("stroke %d", i+1))
		if autoRemove {
			removeFinished(ctrl)
		}
	}
	if autoRemove {
		removeFinished(ctrl)
	}

	snap := ctrl.Snapshot(context.Background())
	if snap.AllDone {
		fmt.Fprintf(w, "Run complete: %d cuts across %d slots\n", snap.TotalCuts, len(snap.Slots))
		return nil
	}

	for _, s := range snap.Slots {
		if s.Status == protocol.SlotRemovable {
			fmt.Fprintf(w, "Slot %d awaits bar removal (rerun with --auto-remove or remove on the panel)\n", s.Index)
		}
	}
	return nil
}

// removeFinished removes every removable slot on the board.
func removeFinished(ctrl *station.Controller) {
	for _, s := range ctrl.Snapshot(context.Background()).Slots {
		if s.Status == protocol.SlotRemovable {
			ctrl.RemoveBar(s.Index)
		}
	}
}

// printBoard renders one board line per event.
func printBoard(w io.Writer, ctrl *station.Controller, label string) {
	snap := ctrl.Snapshot(context.Background())
	fmt.Fprintf(w, "%-10s", label)
	for _, s := range snap.Slots {
		fmt.Fprintf(w, "  [%d] %d/%d %s", s.Index, s.CutsDone, s.PlannedCuts, s.Status)
	}
	fmt.Fprintln(w)
}
