package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// homeDirName is the state directory under the user's home.
const homeDirName = ".shopfloor"

// Paths holds all resolved shopfloor state file paths.
// Use ResolvePaths() to populate this struct with defaults + env overrides.
type Paths struct {
	Home       string // ~/.shopfloor or SHOPFLOOR_HOME
	ConfigPath string // config.toml or SHOPFLOOR_CONFIG
	DBPath     string // station.db or SHOPFLOOR_DB_PATH
}

// ResolvePaths returns all shopfloor paths, respecting env var overrides.
// Environment variables:
//   - SHOPFLOOR_HOME: base directory for all state (default: ~/.shopfloor)
//   - SHOPFLOOR_CONFIG: station config file (default: $SHOPFLOOR_HOME/config.toml)
//   - SHOPFLOOR_DB_PATH: station database (default: $SHOPFLOOR_HOME/station.db)
func ResolvePaths() (*Paths, error) {
	home, err := resolveHome()
	if err != nil {
		return nil, err
	}
	return &Paths{
		Home:       home,
		ConfigPath: resolvePathWithEnv("SHOPFLOOR_CONFIG", home, "config.toml"),
		DBPath:     resolvePathWithEnv("SHOPFLOOR_DB_PATH", home, "station.db"),
	}, nil
}

// resolveHome returns the state directory from SHOPFLOOR_HOME or ~/.shopfloor.
func resolveHome() (string, error) {
	if v := os.Getenv("SHOPFLOOR_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, homeDirName), nil
}

// resolvePathWithEnv returns the path from envKey if set, otherwise joins base + suffix.
func resolvePathWithEnv(envKey, base, suffix string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}
