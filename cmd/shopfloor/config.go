package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// StationConfig is the per-station configuration read from config.toml.
type StationConfig struct {
	StationID string `toml:"station_id"`
	Module    string `toml:"module"` // operational category, e.g. "stirrup_bender"
	MachineID string `toml:"machine_id"`
	Company   string `toml:"company"`  // tenant scope for audit events
	Operator  string `toml:"operator"` // recorded on shown suggestions
}

// defaultConfig is written by `shopfloor init` for the operator to edit.
const defaultConfig = `# shopfloor station configuration
station_id = "station-1"
module = "stirrup_bender"
machine_id = "machine-1"
company = ""
operator = ""
`

// loadConfig reads and parses the station config file.
func loadConfig(path string) (*StationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg StationConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Module == "" {
		return nil, fmt.Errorf("config %s: module must be set", path)
	}
	if cfg.MachineID == "" {
		return nil, fmt.Errorf("config %s: machine_id must be set", path)
	}
	return &cfg, nil
}
