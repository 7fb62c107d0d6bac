// Package learning implements the feedback log: an append-only store of
// blocker/success/suggestion events with a mirrored audit-event stream, plus
// the asynchronous Recorder that keeps persistence off the operator path.
package learning

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"shopfloor/pkg/protocol"
)

// ScopeResolver supplies the tenant/company scope for audit events. The
// scope is an opaque string identifier.
type ScopeResolver func() string

// Store appends learning entries and their audit mirrors to SQLite.
type Store struct {
	db    *sql.DB
	scope ScopeResolver
}

// NewStore creates a Store backed by the given database. A nil scope
// resolver records events without tenant scope.
func NewStore(db *sql.DB, scope ScopeResolver) *Store {
	if scope == nil {
		scope = func() string { return "" }
	}
	return &Store{db: db, scope: scope}
}

// contextToJSON serializes the free-form context snapshot. Nil maps become
// empty objects so the column is always valid JSON.
func contextToJSON(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Append durably records a learning entry and mirrors it to the audit event
// stream. The two inserts are independent best-effort writes: a failure of
// the mirror does not roll back the learning row. The first error wins.
func (s *Store) Append(ctx context.Context, e protocol.LearningEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	var firstErr error

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learnings (module, learning_type, event_type, context, resolution, weight_adjustment, machine_id, bar_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Module, string(e.LearningType), e.EventType, contextToJSON(e.Context),
		e.Resolution, e.WeightAdjustment, e.MachineID, e.BarCode,
	)
	if err != nil {
		firstErr = fmt.Errorf("learning insert: %w", err)
	}

	if err := s.appendEvent(ctx, protocol.AuditEvent{
		EntityType:  "learning",
		EntityID:    e.MachineID,
		EventType:   e.EventType,
		Description: e.Describe(),
		Metadata:    e.Context,
	}); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// appendEvent inserts one audit event row, filling id, scope and timestamp.
func (s *Store) appendEvent(ctx context.Context, ev protocol.AuditEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, entity_type, entity_id, event_type, description, company, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.EntityType, ev.EntityID, ev.EventType, ev.Description,
		s.scope(), contextToJSON(ev.Metadata),
	)
	if err != nil {
		return fmt.Errorf("event insert: %w", err)
	}
	return nil
}

// Completion builds the success entry recorded when a run's work finishes.
func Completion(module, machineID, barCode string, ctxMap map[string]string) protocol.LearningEntry {
	return protocol.LearningEntry{
		Module:           module,
		LearningType:     protocol.LearnSuccess,
		EventType:        "mark_completed",
		Context:          ctxMap,
		Resolution:       "Completed successfully",
		WeightAdjustment: protocol.WeightSuccess,
		MachineID:        machineID,
		BarCode:          barCode,
	}
}

// BlockerEntry builds the entry recorded when a new top blocker appears.
// eventType is the lowercased blocker code.
func BlockerEntry(module, eventType, machineID string, ctxMap map[string]string) protocol.LearningEntry {
	return protocol.LearningEntry{
		Module:           module,
		LearningType:     protocol.LearnBlocker,
		EventType:        eventType,
		Context:          ctxMap,
		WeightAdjustment: protocol.WeightBlocker,
		MachineID:        machineID,
	}
}

// AppendInteraction records a suggestion interaction on the audit stream
// only. Interaction feedback is tracked via the suggestion's own status
// field, so no learnings row is written.
func (s *Store) AppendInteraction(ctx context.Context, suggestionID, action, module string, ctxMap map[string]string) error {
	return s.appendEvent(ctx, protocol.AuditEvent{
		EntityType:  "suggestion",
		EntityID:    suggestionID,
		EventType:   action,
		Description: fmt.Sprintf("[%s] suggestion %s", module, action),
		Metadata:    ctxMap,
	})
}
