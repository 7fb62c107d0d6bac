package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/pelletier/go-toml/v2"

	"shopfloor/pkg/learning"
	"shopfloor/pkg/protocol"
	"shopfloor/pkg/suggestion"
)

// Snapshot is everything the dashboard renders in one refresh.
type Snapshot struct {
	Module      string                `json:"module"`
	MachineID   string                `json:"machine_id"`
	Suggestions []protocol.Suggestion `json:"suggestions"`
	Learnings   []learning.Row        `json:"learnings"`
	WeightSum   float64               `json:"weight_sum"`
}

// dataSource owns the database handle and the stores the dashboard reads.
type dataSource struct {
	db       *sql.DB
	store    *suggestion.Store
	svc      *suggestion.Service
	reader   *learning.Reader
	recorder *learning.Recorder

	module    string
	machineID string
	dbDir     string
}

// stationConfig mirrors the fields of config.toml the dashboard needs.
type stationConfig struct {
	Module    string `toml:"module"`
	MachineID string `toml:"machine_id"`
	Company   string `toml:"company"`
}

// newDataSource resolves paths the same way the shopfloor CLI does and
// wires read stores plus the interaction recorder for accept/dismiss keys.
func newDataSource() (*dataSource, error) {
	home := os.Getenv("SHOPFLOOR_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		home = filepath.Join(userHome, ".shopfloor")
	}

	cfgPath := os.Getenv("SHOPFLOOR_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(home, "config.toml")
	}
	dbPath := os.Getenv("SHOPFLOOR_DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(home, "station.db")
	}

	var cfg stationConfig
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s (run `shopfloor init` first): %w", dbPath, err)
	}

	company := cfg.Company
	recorder := learning.NewRecorder(
		learning.NewStore(db, func() string { return company }),
		learning.DefaultQueueSize,
	)
	store := suggestion.NewStore(db)

	return &dataSource{
		db:        db,
		store:     store,
		svc:       suggestion.NewService(store, recorder, cfg.Module, cfg.Module),
		reader:    learning.NewReader(db),
		recorder:  recorder,
		module:    cfg.Module,
		machineID: cfg.MachineID,
		dbDir:     filepath.Dir(dbPath),
	}, nil
}

// Fetch reads a fresh snapshot from the stores.
func (s *dataSource) Fetch() (*Snapshot, error) {
	ctx := context.Background()

	// Bypass the service cache: the dashboard has its own refresh cadence.
	suggestions, err := s.store.List(ctx, s.module)
	if err != nil {
		return nil, err
	}
	learnings, err := s.reader.Query(ctx, learning.QueryOpts{Module: s.module, Limit: 10})
	if err != nil {
		return nil, err
	}
	weight, err := s.reader.WeightSum(ctx, s.module)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Module:      s.module,
		MachineID:   s.machineID,
		Suggestions: suggestions,
		Learnings:   learnings,
		WeightSum:   weight,
	}, nil
}

// Accept resolves a suggestion as accepted, mirroring the interaction.
func (s *dataSource) Accept(id string) error {
	return s.svc.Accept(context.Background(), id)
}

// Dismiss resolves a suggestion as dismissed, mirroring the interaction.
func (s *dataSource) Dismiss(id string) error {
	return s.svc.Dismiss(context.Background(), id)
}

// Close drains the recorder and releases the database.
func (s *dataSource) Close() {
	s.recorder.Close()
	_ = s.db.Close()
}
