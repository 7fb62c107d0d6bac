// Package foreman implements the decision engine for one station. Decide is
// a pure function from a live context snapshot to a decision: an ordered
// list of blockers plus an optional playbook edge case. A separate
// BlockerTracker debounces the top blocker for the learning log.
package foreman

import (
	"strings"

	"shopfloor/pkg/playbook"
)

// Machine status values supplied by the presentation layer.
const (
	MachineRunning = "running"
	MachinePaused  = "paused"
	MachineStopped = "stopped"
	MachineOffline = "offline"
	MachineFault   = "fault"
)

// Blocker codes, highest priority first.
const (
	CodeMachineFault   = "MACHINE_FAULT"
	CodeMachineOffline = "MACHINE_OFFLINE"
	CodeMachinePaused  = "MACHINE_PAUSED"
	CodeNoItemLoaded   = "NO_ITEM_LOADED"
	CodeBarCodeMissing = "BAR_CODE_MISSING"
)

// Item is the work item currently loaded at the station.
type Item struct {
	ID      string `json:"id"`
	BarCode string `json:"bar_code"`
}

// Context is the live snapshot the presentation layer supplies on every
// relevant state change. The engine never mutates it.
type Context struct {
	Module        string `json:"module"`
	MachineID     string `json:"machine_id"`
	MachineStatus string `json:"machine_status"`
	CurrentItem   *Item  `json:"current_item,omitempty"`
}

// Blocker is one condition preventing smooth progress.
type Blocker struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Decision is the engine output. Blockers[0], when present, is the top
// blocker. Guidance is attached when EdgeCaseID resolves in the playbook.
type Decision struct {
	Blockers   []Blocker       `json:"blockers"`
	EdgeCaseID string          `json:"edge_case_id,omitempty"`
	Guidance   *playbook.Entry `json:"guidance,omitempty"`
}

// TopBlockerCode returns the code of the highest-priority blocker, or ""
// when the decision is nil or clear.
func (d *Decision) TopBlockerCode() string {
	if d == nil || len(d.Blockers) == 0 {
		return ""
	}
	return d.Blockers[0].Code
}

// Decide computes a decision from a context snapshot. Nil context means no
// station is selected and yields a nil decision. The function is
// deterministic and holds no state, so callers may invoke it on every
// context change without throttling.
func Decide(ctx *Context) *Decision {
	if ctx == nil {
		return nil
	}

	d := &Decision{}

	switch ctx.MachineStatus {
	case MachineFault:
		d.Blockers = append(d.Blockers, Blocker{
			Code:   CodeMachineFault,
			Detail: "machine " + ctx.MachineID + " reports a fault",
		})
		d.EdgeCaseID = "machine_fault_mid_slot"
	case MachineOffline, MachineStopped:
		d.Blockers = append(d.Blockers, Blocker{
			Code:   CodeMachineOffline,
			Detail: "machine " + ctx.MachineID + " is not running",
		})
	case MachinePaused:
		d.Blockers = append(d.Blockers, Blocker{Code: CodeMachinePaused})
	}

	switch {
	case ctx.CurrentItem == nil:
		d.Blockers = append(d.Blockers, Blocker{Code: CodeNoItemLoaded})
	case ctx.CurrentItem.BarCode == "":
		d.Blockers = append(d.Blockers, Blocker{
			Code:   CodeBarCodeMissing,
			Detail: "item " + ctx.CurrentItem.ID + " has no bar code",
		})
		if d.EdgeCaseID == "" {
			d.EdgeCaseID = "bar_code_mismatch"
		}
	}

	return d
}

// Enrich attaches playbook guidance for the decision's edge case, when the
// registry knows it. Absence of a matching entry degrades to no guidance.
func Enrich(d *Decision, reg *playbook.Registry) {
	if d == nil || d.EdgeCaseID == "" || reg == nil {
		return
	}
	if e, ok := reg.Lookup(d.EdgeCaseID); ok {
		d.Guidance = &e
	}
}

// BlockerTracker debounces top-blocker transitions. It holds only the last
// observed code, keeping the pure engine free of state.
type BlockerTracker struct {
	lastCode string
}

// Observe inspects a decision and reports whether a new blocker code just
// became the top blocker. Repeats of the current code report false; a
// transition to "no blocker" clears the tracked value but reports false, so
// an unresolved blocker is logged exactly once.
func (t *BlockerTracker) Observe(d *Decision) (code string, changed bool) {
	code = d.TopBlockerCode()
	if code == t.lastCode {
		return code, false
	}
	t.lastCode = code
	if code == "" {
		return "", false
	}
	return code, true
}

// EventType converts a blocker code into the learning-log event type.
func EventType(code string) string {
	return strings.ToLower(code)
}
