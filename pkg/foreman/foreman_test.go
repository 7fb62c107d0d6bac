package foreman //nolint:testpackage // white-box tests inspect tracker state

import (
	"testing"

	"shopfloor/pkg/playbook"
)

func TestDecide_NilContext(t *testing.T) {
	t.Parallel()

	if d := Decide(nil); d != nil {
		t.Fatalf("decide(nil) = %+v, want nil", d)
	}
}

func TestDecide_BlockerRules(t *testing.T) {
	t.Parallel()

	item := &Item{ID: "itm-1", BarCode: "B500-12"}
	bare := &Item{ID: "itm-2"}

	cases := []struct {
		name      string
		ctx       Context
		wantTop   string
		wantCount int
		wantEdge  string
	}{
		{
			name:      "clear",
			ctx:       Context{MachineStatus: MachineRunning, CurrentItem: item},
			wantTop:   "",
			wantCount: 0,
		},
		{
			name:      "fault outranks everything",
			ctx:       Context{MachineID: "m1", MachineStatus: MachineFault, CurrentItem: nil},
			wantTop:   CodeMachineFault,
			wantCount: 2,
			wantEdge:  "machine_fault_mid_slot",
		},
		{
			name:      "offline",
			ctx:       Context{MachineStatus: MachineOffline, CurrentItem: item},
			wantTop:   CodeMachineOffline,
			wantCount: 1,
		},
		{
			name:      "stopped maps to offline blocker",
			ctx:       Context{MachineStatus: MachineStopped, CurrentItem: item},
			wantTop:   CodeMachineOffline,
			wantCount: 1,
		},
		{
			name:      "paused",
			ctx:       Context{MachineStatus: MachinePaused, CurrentItem: item},
			wantTop:   CodeMachinePaused,
			wantCount: 1,
		},
		{
			name:      "no item",
			ctx:       Context{MachineStatus: MachineRunning},
			wantTop:   CodeNoItemLoaded,
			wantCount: 1,
		},
		{
			name:      "missing bar code",
			ctx:       Context{MachineStatus: MachineRunning, CurrentItem: bare},
			wantTop:   CodeBarCodeMissing,
			wantCount: 1,
			wantEdge:  "bar_code_mismatch",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := Decide(&tc.ctx)
			if d == nil {
				t.Fatal("decide returned nil for non-nil context")
			}
			if got := d.TopBlockerCode(); got != tc.wantTop {
				t.Errorf("top blocker = %q, want %q", got, tc.wantTop)
			}
			if got := len(d.Blockers); got != tc.wantCount {
				t.Errorf("blocker count = %d, want %d", got, tc.wantCount)
			}
			if d.EdgeCaseID != tc.wantEdge {
				t.Errorf("edge case = %q, want %q", d.EdgeCaseID, tc.wantEdge)
			}
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	t.Parallel()

	ctx := &Context{MachineID: "m1", MachineStatus: MachineFault}
	a, b := Decide(ctx), Decide(ctx)
	if a.TopBlockerCode() != b.TopBlockerCode() || len(a.Blockers) != len(b.Blockers) {
		t.Fatal("decide is not deterministic for identical context")
	}
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	reg, err := playbook.Load()
	if err != nil {
		t.Fatalf("load playbook: %v", err)
	}

	d := Decide(&Context{MachineID: "m1", MachineStatus: MachineFault})
	Enrich(d, reg)
	if d.Guidance == nil {
		t.Fatal("expected guidance for machine_fault_mid_slot")
	}
	if d.Guidance.ID != "machine_fault_mid_slot" {
		t.Fatalf("guidance id = %q", d.Guidance.ID)
	}

	// Unknown edge case degrades to no guidance.
	d2 := &Decision{EdgeCaseID: "not_in_catalog"}
	Enrich(d2, reg)
	if d2.Guidance != nil {
		t.Fatal("unknown edge case produced guidance")
	}

	// Nil decision and nil registry are safe.
	Enrich(nil, reg)
	Enrich(d, nil)
}

func TestBlockerTracker_Debounce(t *testing.T) {
	t.Parallel()

	decisionFor := func(code string) *Decision {
		if code == "" {
			return &Decision{}
		}
		return &Decision{Blockers: []Blocker{{Code: code}}}
	}

	var tr BlockerTracker
	seq := []string{"A", "A", "A", "B", "B", "", "A"}
	var emitted []string
	for _, code := range seq {
		if got, changed := tr.Observe(decisionFor(code)); changed {
			emitted = append(emitted, got)
		}
	}

	want := []string{"A", "B", "A"}
	if len(emitted) != len(want) {
		t.Fatalf("emitted %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted %v, want %v", emitted, want)
		}
	}
}

func TestBlockerTracker_NilDecisionClears(t *testing.T) {
	t.Parallel()

	var tr BlockerTracker
	if _, changed := tr.Observe(&Decision{Blockers: []Blocker{{Code: "A"}}}); !changed {
		t.Fatal("first blocker not reported")
	}
	if _, changed := tr.Observe(nil); changed {
		t.Fatal("nil decision reported a change")
	}
	// Re-entry after clear is a fresh event.
	if _, changed := tr.Observe(&Decision{Blockers: []Blocker{{Code: "A"}}}); !changed {
		t.Fatal("re-entry after clear not reported")
	}
}

func TestEventType(t *testing.T) {
	t.Parallel()

	if got := EventType(CodeMachineFault); got != "machine_fault" {
		t.Fatalf("eventType = %q, want machine_fault", got)
	}
}
