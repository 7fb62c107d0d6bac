// Package main implements the shopfloor-dash station dashboard: active
// suggestions, recent learning entries and the station weight signal,
// refreshed on a tick and on database changes.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

func main() {
	src, err := newDataSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	// Without a terminal, emit one JSON snapshot and exit. Keeps the
	// dashboard scriptable from the same binary.
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		if err := printSnapshot(src); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(newModel(src), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

// printSnapshot writes the current station state as JSON to stdout.
func printSnapshot(src *dataSource) error {
	snap, err := src.Fetch()
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
