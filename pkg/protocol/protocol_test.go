package protocol //nolint:testpackage // white-box by convention with the other packages

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestSchemaDDL_AppliesCleanly(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(SchemaDDL); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	// Re-applying must be idempotent (IF NOT EXISTS everywhere).
	if _, err := db.Exec(SchemaDDL); err != nil {
		t.Fatalf("re-exec schema: %v", err)
	}

	for _, table := range []string{"suggestions", "learnings", "events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestSlotStatus_Terminal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status SlotStatus
		want   bool
	}{
		{SlotWaiting, false},
		{SlotActive, false},
		{SlotRemovable, false},
		{SlotCompleted, true},
		{SlotRemoved, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestLearningEntry_Describe(t *testing.T) {
	t.Parallel()

	e := LearningEntry{Module: "stirrup_bender", EventType: "machine_fault"}
	if got := e.Describe(); got != "[stirrup_bender] machine_fault" {
		t.Errorf("describe = %q", got)
	}

	e.Resolution = "Completed successfully"
	if got := e.Describe(); got != "[stirrup_bender] machine_fault → Completed successfully" {
		t.Errorf("describe with resolution = %q", got)
	}
}

func TestLearningEntry_Validate(t *testing.T) {
	t.Parallel()

	valid := LearningEntry{Module: "m", LearningType: LearnSuccess, EventType: "e"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}

	cases := []LearningEntry{
		{LearningType: LearnSuccess, EventType: "e"},
		{Module: "m", EventType: "e"},
		{Module: "m", LearningType: LearnSuccess},
	}
	for i, e := range cases {
		if err := e.Validate(); err == nil {
			t.Errorf("case %d: incomplete entry accepted", i)
		}
	}
}
