package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"shopfloor/pkg/protocol"
)

// setupStationHome creates a station home with schema and config, pointing
// the env overrides at it.
func setupStationHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SHOPFLOOR_HOME", home)

	cfg := "module = \"stirrup_bender\"\nmachine_id = \"m1\"\ncompany = \"acme-fab\"\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(home, "station.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(protocol.SchemaDDL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	return home
}

func TestDataSource_FetchEmptyStation(t *testing.T) {
	setupStationHome(t)

	src, err := newDataSource()
	if err != nil {
		t.Fatalf("new data source: %v", err)
	}
	defer src.Close()

	snap, err := src.Fetch()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.Module != "stirrup_bender" || snap.MachineID != "m1" {
		t.Fatalf("snapshot identity = %s/%s", snap.Module, snap.MachineID)
	}
	if len(snap.Suggestions) != 0 || len(snap.Learnings) != 0 || snap.WeightSum != 0 {
		t.Fatalf("empty station produced %+v", snap)
	}
}

func TestDataSource_DismissMirrorsAndHides(t *testing.T) {
	home := setupStationHome(t)

	src, err := newDataSource()
	if err != nil {
		t.Fatalf("new data source: %v", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(home, "station.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	_, err = db.Exec(
		`INSERT INTO suggestions (id, suggestion_type, category, title, priority, status)
		 VALUES ('sug-1', 'warning', 'stirrup_bender', 'Check blade wear', 5, 'pending')`)
	if err != nil {
		t.Fatalf("seed suggestion: %v", err)
	}

	if err := src.Dismiss("sug-1"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	// Close drains the interaction mirror before we read the events table.
	src.Close()

	snapDB, err := sql.Open("sqlite", filepath.Join(home, "station.db"))
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer snapDB.Close()

	var n int
	if err := snapDB.QueryRow(
		"SELECT COUNT(*) FROM events WHERE entity_id = 'sug-1' AND event_type = 'dismissed'",
	).Scan(&n); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if n != 1 {
		t.Fatalf("interaction events = %d, want 1", n)
	}

	var status string
	if err := snapDB.QueryRow("SELECT status FROM suggestions WHERE id = 'sug-1'").Scan(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status != "dismissed" {
		t.Fatalf("status = %q, want dismissed", status)
	}
}

func TestDataSource_MissingDBFailsFast(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SHOPFLOOR_HOME", home)
	t.Setenv("SHOPFLOOR_DB_PATH", filepath.Join(home, "missing", "nope.db"))

	if _, err := newDataSource(); err == nil {
		t.Fatal("expected error for unreachable database")
	}
}
