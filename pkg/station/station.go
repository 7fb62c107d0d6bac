// Package station ties one machine station together: the slot board, the
// foreman decision engine, the suggestion service and the learning recorder,
// behind a single Controller owned by the presentation layer.
//
// One Controller serves one station, driven from one goroutine. Stroke and
// removal events mutate only in-memory state; everything that touches the
// database goes through the recorder's background worker or the suggestion
// service's cached reads, so the operator-facing control never waits on I/O.
package station

import (
	"context"

	"shopfloor/pkg/foreman"
	"shopfloor/pkg/playbook"
	"shopfloor/pkg/protocol"
	"shopfloor/pkg/slot"
	"shopfloor/pkg/suggestion"
)

// Config identifies the station and its tenant scope.
type Config struct {
	Module    string // operational category, e.g. machine type
	MachineID string
	Company   string
}

// LearningSink is the slice of the learning recorder the controller needs.
// Satisfied by *learning.Recorder.
type LearningSink interface {
	RecordCompletion(module, machineID, barCode string, ctxMap map[string]string)
	RecordBlocker(module, eventType, machineID string, ctxMap map[string]string)
}

// Result is the single object handed to the presentation layer after each
// recompute: current slots, the latest decision and the active suggestions.
type Result struct {
	Slots       []slot.ActiveSlot     `json:"slots"`
	AllDone     bool                  `json:"all_done"`
	TotalCuts   int                   `json:"total_cuts"`
	Decision    *foreman.Decision     `json:"decision,omitempty"`
	Suggestions []protocol.Suggestion `json:"suggestions,omitempty"`
}

// Controller orchestrates one station. Not safe for concurrent use: events
// arrive serially from the single operator UI.
type Controller struct {
	cfg      Config
	board    slot.Board
	registry *playbook.Registry
	tracker  foreman.BlockerTracker
	sink     LearningSink
	svc      *suggestion.Service

	lastCtx      *foreman.Context
	lastDecision *foreman.Decision
}

// New creates a Controller. registry, sink and svc may each be nil when the
// corresponding surface is not wired (e.g. in tests or headless tools).
func New(cfg Config, registry *playbook.Registry, sink LearningSink, svc *suggestion.Service) *Controller {
	return &Controller{cfg: cfg, registry: registry, sink: sink, svc: svc}
}

// UpdateContext feeds the latest context snapshot into the decision engine
// and records a blocker learning event when the top blocker changes.
func (c *Controller) UpdateContext(fc *foreman.Context) {
	c.lastCtx = fc
	d := foreman.Decide(fc)
	foreman.Enrich(d, c.registry)
	c.lastDecision = d

	code, changed := c.tracker.Observe(d)
	if changed && c.sink != nil {
		c.sink.RecordBlocker(c.cfg.Module, foreman.EventType(code), c.cfg.MachineID, c.contextSnapshot())
	}
}

// StartRun initializes the slot board from the plan. No-op on an infeasible
// plan, an empty plan, or a board that is already running.
func (c *Controller) StartRun(plan slot.Plan) {
	c.board.Start(plan)
}

// StopRun abandons the current run and clears the board.
func (c *Controller) StopRun() {
	c.board.Reset()
}

// RecordStroke registers one physical stroke. Synchronous and in-memory; a
// stroke that finishes the whole run enqueues the completion learning event.
func (c *Controller) RecordStroke() {
	wasDone := c.board.AllDone()
	c.board.RecordStroke()
	c.maybeRecordCompletion(wasDone)
}

// RemoveBar registers the physical removal of a finished partial bar.
func (c *Controller) RemoveBar(index int) {
	wasDone := c.board.AllDone()
	c.board.RemoveBar(index)
	c.maybeRecordCompletion(wasDone)
}

// maybeRecordCompletion fires the success event exactly once, on the
// transition into the all-done state.
func (c *Controller) maybeRecordCompletion(wasDone bool) {
	if wasDone || !c.board.AllDone() || c.sink == nil {
		return
	}
	c.sink.RecordCompletion(c.cfg.Module, c.cfg.MachineID, c.barCode(), c.contextSnapshot())
}

// Snapshot assembles the facade result for the presentation layer.
func (c *Controller) Snapshot(ctx context.Context) Result {
	r := Result{
		Slots:     c.board.Slots(),
		AllDone:   c.board.AllDone(),
		TotalCuts: c.board.TotalCutsDone(),
		Decision:  c.lastDecision,
	}
	if c.svc != nil {
		r.Suggestions = c.svc.Suggestions(ctx)
	}
	return r
}

// barCode returns the material identifier of the current item, if any.
func (c *Controller) barCode() string {
	if c.lastCtx == nil || c.lastCtx.CurrentItem == nil {
		return ""
	}
	return c.lastCtx.CurrentItem.BarCode
}

// contextSnapshot captures the live context as the free-form key/value map
// attached to learning entries.
func (c *Controller) contextSnapshot() map[string]string {
	m := map[string]string{
		"machine_id": c.cfg.MachineID,
	}
	if c.lastCtx != nil {
		m["machine_status"] = c.lastCtx.MachineStatus
		if c.lastCtx.CurrentItem != nil {
			m["item_id"] = c.lastCtx.CurrentItem.ID
			m["bar_code"] = c.lastCtx.CurrentItem.BarCode
		}
	}
	return m
}
