package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupStation initializes a throwaway station home and returns its path.
func setupStation(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("SHOPFLOOR_HOME", home)

	out := runCLI(t, "init")
	if !strings.Contains(out, "Initialized station state") {
		t.Fatalf("init output: %q", out)
	}
	return home
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, buf.String())
	}
	return buf.String()
}

func TestInitCmd_CreatesStateAndConfig(t *testing.T) {
	home := setupStation(t)

	if _, err := os.Stat(filepath.Join(home, "station.db")); err != nil {
		t.Errorf("station.db missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.toml")); err != nil {
		t.Errorf("config.toml missing: %v", err)
	}

	// Re-running init must be idempotent.
	runCLI(t, "init")
}

func TestStatusCmd(t *testing.T) {
	setupStation(t)

	out := runCLI(t, "status")
	if !strings.Contains(out, "stirrup_bender") {
		t.Errorf("status output missing module: %q", out)
	}
	if !strings.Contains(out, "Suggestions: 0 active") {
		t.Errorf("status output missing suggestion count: %q", out)
	}
}

func TestRunCmd_FullRunWithAutoRemove(t *testing.T) {
	home := setupStation(t)

	planPath := filepath.Join(home, "plan.yaml")
	plan := `feasible: true
slots:
  - index: 0
    planned_cuts: 3
  - index: 1
    planned_cuts: 2
    remove_after_cuts: true
`
	if err := os.WriteFile(planPath, []byte(plan), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	out := runCLI(t, "run", planPath, "--auto-remove", "--bar-code", "B500-12", "--item", "itm-1")
	if !strings.Contains(out, "Run complete: 5 cuts across 2 slots") {
		t.Fatalf("run output: %q", out)
	}

	// The completed run must be visible in the learning log.
	learnings := runCLI(t, "learnings", "--module", "stirrup_bender")
	if !strings.Contains(learnings, "mark_completed") {
		t.Errorf("learnings output missing completion: %q", learnings)
	}
}

func TestRunCmd_PartialAwaitingRemoval(t *testing.T) {
	home := setupStation(t)

	planPath := filepath.Join(home, "plan.yaml")
	plan := `feasible: true
slots:
  - index: 0
    planned_cuts: 1
    remove_after_cuts: true
`
	if err := os.WriteFile(planPath, []byte(plan), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	out := runCLI(t, "run", planPath)
	if !strings.Contains(out, "awaits bar removal") {
		t.Fatalf("run output: %q", out)
	}
}

func TestRunCmd_InfeasiblePlanRejected(t *testing.T) {
	home := setupStation(t)

	planPath := filepath.Join(home, "plan.yaml")
	if err := os.WriteFile(planPath, []byte("feasible: false\nslots: []\n"), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"run", planPath})
	if err := root.Execute(); err == nil {
		t.Fatal("infeasible plan accepted")
	}
}

func TestSuggestCmds_Lifecycle(t *testing.T) {
	setupStation(t)

	// Seed one suggestion directly, as the persistence owner would.
	paths, err := ResolvePaths()
	if err != nil {
		t.Fatalf("resolve paths: %v", err)
	}
	db, err := openDB(paths.DBPath)
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

	out := runCLI(t, "suggest", "list")
	if !strings.Contains(out, "Check blade wear") {
		t.Fatalf("suggest list: %q", out)
	}

	out = runCLI(t, "suggest", "dismiss", "sug-1")
	if !strings.Contains(out, "Dismissed sug-1") {
		t.Fatalf("suggest dismiss: %q", out)
	}

	out = runCLI(t, "suggest", "list")
	if !strings.Contains(out, "No active suggestions") {
		t.Fatalf("dismissed suggestion still listed: %q", out)
	}

	// The interaction must be mirrored on the audit stream.
	var n int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM events WHERE entity_type='suggestion' AND entity_id='sug-1' AND event_type='dismissed'",
	).Scan(&n); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if n != 1 {
		t.Fatalf("interaction events = %d, want 1", n)
	}
}

func TestPlaybookCmd(t *testing.T) {
	out := runCLI(t, "playbook", "jam_partial_bar")
	if !strings.Contains(out, "Partial bar jammed") {
		t.Fatalf("playbook output: %q", out)
	}

	out = runCLI(t, "playbook", "unknown_case")
	if !strings.Contains(out, "No guidance available") {
		t.Fatalf("playbook unknown output: %q", out)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(`station_id = "s1"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("config without module accepted")
	}

	if err := os.WriteFile(path, []byte("module = \"stirrup_bender\"\nmachine_id = \"m1\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Module != "stirrup_bender" || cfg.MachineID != "m1" {
		t.Fatalf("config = %+v", cfg)
	}
}
