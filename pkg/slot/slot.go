// Package slot implements the run plan model and the slot state machine that
// advances as the operator performs strokes. A Board tracks one machine load:
// each planned bar occupies one slot, slots activate in plan order, and a
// partial bar must be physically removed before its slot is terminal.
//
// The Board is deliberately lock-free: stroke and removal events arrive
// serially from the single operator at the station, so there is only a
// sequencing problem, never a concurrent-writer problem.
package slot

import "shopfloor/pkg/protocol"

// Spec describes one planned slot. Immutable once a run starts.
type Spec struct {
	Index           int  `json:"index" yaml:"index"`
	PlannedCuts     int  `json:"planned_cuts" yaml:"planned_cuts"`
	RemoveAfterCuts bool `json:"remove_after_cuts" yaml:"remove_after_cuts"`
}

// Plan is the accepted plan for one machine run.
type Plan struct {
	Feasible bool   `json:"feasible" yaml:"feasible"`
	Specs    []Spec `json:"slots" yaml:"slots"`
}

// ActiveSlot is the run-time state derived from a Spec when a run starts.
type ActiveSlot struct {
	Index       int                 `json:"index"`
	PlannedCuts int                 `json:"planned_cuts"`
	CutsDone    int                 `json:"cuts_done"`
	Status      protocol.SlotStatus `json:"status"`
	IsPartial   bool                `json:"is_partial"`
}

// Board owns the active slots for one run at one station.
// The zero value is an empty board with no run in progress.
type Board struct {
	slots []ActiveSlot
}

// Start initializes the board from a plan. It is a no-op unless the plan is
// feasible, has at least one slot, and the board is currently empty; calling
// Start twice therefore cannot double-initialize a running board.
func (b *Board) Start(plan Plan) {
	if !plan.Feasible || len(plan.Specs) == 0 || len(b.slots) > 0 {
		return
	}
	b.slots = make([]ActiveSlot, 0, len(plan.Specs))
	for _, spec := range plan.Specs {
		cuts := spec.PlannedCuts
		if cuts < 1 {
			cuts = 1
		}
		b.slots = append(b.slots, ActiveSlot{
			Index:       spec.Index,
			PlannedCuts: cuts,
			Status:      protocol.SlotWaiting,
			IsPartial:   spec.RemoveAfterCuts,
		})
	}
	if i := b.lowestWaiting(); i >= 0 {
		b.slots[i].Status = protocol.SlotActive
	}
}

// RecordStroke registers one physical stroke against the active slot.
// With no active slot this is a no-op: the lookup guard also prevents
// CutsDone from ever exceeding PlannedCuts, since the status flips away from
// active in the same call that reaches the threshold.
func (b *Board) RecordStroke() {
	i := b.active()
	if i < 0 {
		return
	}
	s := &b.slots[i]
	s.CutsDone++
	if s.CutsDone < s.PlannedCuts {
		return
	}
	if s.IsPartial {
		s.Status = protocol.SlotRemovable
	} else {
		s.Status = protocol.SlotCompleted
	}
	// The next bar can be worked while a finished partial bar still sits in
	// the machine awaiting removal.
	b.promote()
}

// RemoveBar marks the slot with the given index as removed. Only a removable
// slot may be removed; anything else is a no-op guard against stale UI state.
func (b *Board) RemoveBar(index int) {
	for i := range b.slots {
		if b.slots[i].Index != index {
			continue
		}
		if b.slots[i].Status != protocol.SlotRemovable {
			return
		}
		b.slots[i].Status = protocol.SlotRemoved
		// Safety net: activation normally happened at stroke time.
		b.promote()
		return
	}
}

// Reset discards all tracked slots, returning the board to the pre-run state.
// Safe to call any number of times from any state.
func (b *Board) Reset() {
	b.slots = nil
}

// AllDone reports whether every slot reached a terminal status. An empty
// board is never done.
func (b *Board) AllDone() bool {
	if len(b.slots) == 0 {
		return false
	}
	for _, s := range b.slots {
		if !s.Status.Terminal() {
			return false
		}
	}
	return true
}

// TotalCutsDone sums CutsDone across all slots.
func (b *Board) TotalCutsDone() int {
	total := 0
	for _, s := range b.slots {
		total += s.CutsDone
	}
	return total
}

// Slots returns a copy of the tracked slots in plan order.
func (b *Board) Slots() []ActiveSlot {
	out := make([]ActiveSlot, len(b.slots))
	copy(out, b.slots)
	return out
}

// active returns the position of the single active slot, or -1.
func (b *Board) active() int {
	for i := range b.slots {
		if b.slots[i].Status == protocol.SlotActive {
			return i
		}
	}
	return -1
}

// lowestWaiting returns the position of the waiting slot with the lowest
// Index, or -1 when none is waiting.
func (b *Board) lowestWaiting() int {
	best := -1
	for i := range b.slots {
		if b.slots[i].Status != protocol.SlotWaiting {
			continue
		}
		if best < 0 || b.slots[i].Index < b.slots[best].Index {
			best = i
		}
	}
	return best
}

// promote activates the lowest-index waiting slot. No-op while another slot
// is still active: at most one slot is active at any time.
func (b *Board) promote() {
	if b.active() >= 0 {
		return
	}
	if i := b.lowestWaiting(); i >= 0 {
		b.slots[i].Status = protocol.SlotActive
	}
}
