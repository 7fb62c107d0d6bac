// Package protocol defines the shared types and SQLite schema for the
// shop-floor control engine: slot statuses, suggestion and learning records,
// and the audit event envelope used by every store.
package protocol

import (
	"fmt"
	"strings"
	"time"
)

// SlotStatus represents the lifecycle state of one planned slot in a run.
type SlotStatus string

// Slot status constants.
const (
	SlotWaiting   SlotStatus = "waiting"
	SlotActive    SlotStatus = "active"
	SlotCompleted SlotStatus = "completed"
	SlotRemovable SlotStatus = "removable" // partial bar done, awaiting physical removal
	SlotRemoved   SlotStatus = "removed"
)

// Terminal reports whether the status is final for a slot.
func (s SlotStatus) Terminal() bool {
	return s == SlotCompleted || s == SlotRemoved
}

// SuggestionType classifies a suggestion row.
type SuggestionType string

// Suggestion type constants.
const (
	SuggestionWarning      SuggestionType = "warning"
	SuggestionNextAction   SuggestionType = "next_action"
	SuggestionLearning     SuggestionType = "learning"
	SuggestionOptimization SuggestionType = "optimization"
)

// SuggestionStatus tracks where a suggestion is in its lifecycle.
type SuggestionStatus string

// Suggestion status constants.
const (
	StatusPending   SuggestionStatus = "pending"
	StatusShown     SuggestionStatus = "shown"
	StatusAccepted  SuggestionStatus = "accepted"
	StatusDismissed SuggestionStatus = "dismissed"
	StatusIgnored   SuggestionStatus = "ignored"
)

// LearningType classifies a learning entry.
type LearningType string

// Learning type constants.
const (
	LearnSuccess   LearningType = "success"
	LearnBlocker   LearningType = "blocker"
	LearnError     LearningType = "error"
	LearnException LearningType = "exception"
	LearnEdgeCase  LearningType = "edge_case"
)

// Interaction actions recorded when an operator acts on a suggestion.
const (
	ActionShown     = "shown"
	ActionAccepted  = "accepted"
	ActionDismissed = "dismissed"
)

// Weight adjustment signals attached to learning entries. Small signed
// magnitudes, used to bias future prioritization.
const (
	WeightSuccess = 0.1
	WeightBlocker = -0.2
)

// Suggestion is one actionable hint surfaced to the operator.
type Suggestion struct {
	ID          string           `json:"id"`
	Type        SuggestionType   `json:"suggestion_type"`
	Category    string           `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Priority    int              `json:"priority"`
	Status      SuggestionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	ShownTo     string           `json:"shown_to,omitempty"`
	ShownAt     *time.Time       `json:"shown_at,omitempty"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}

// LearningEntry is one append-only feedback record. Entries are never
// updated or deleted by the engine.
type LearningEntry struct {
	Module           string            `json:"module"`
	LearningType     LearningType      `json:"learning_type"`
	EventType        string            `json:"event_type"`
	Context          map[string]string `json:"context,omitempty"`
	Resolution       string            `json:"resolution,omitempty"`
	WeightAdjustment float64           `json:"weight_adjustment"`
	MachineID        string            `json:"machine_id,omitempty"`
	BarCode          string            `json:"bar_code,omitempty"`
}

// AuditEvent is the generic tenant-scoped event envelope mirrored alongside
// learning entries and suggestion interactions.
type AuditEvent struct {
	ID          string            `json:"id"`
	EntityType  string            `json:"entity_type"`
	EntityID    string            `json:"entity_id"`
	EventType   string            `json:"event_type"`
	Description string            `json:"description"`
	Company     string            `json:"company"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Describe composes the human-readable audit description for a learning
// entry: "[<module>] <eventType>" with an optional resolution suffix.
func (e LearningEntry) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Module, e.EventType)
	if e.Resolution != "" {
		fmt.Fprintf(&b, " → %s", e.Resolution)
	}
	return b.String()
}

// Validate reports whether the entry carries the minimum required fields.
func (e LearningEntry) Validate() error {
	if e.Module == "" {
		return fmt.Errorf("learning entry: missing module")
	}
	if e.LearningType == "" {
		return fmt.Errorf("learning entry: missing learning type")
	}
	if e.EventType == "" {
		return fmt.Errorf("learning entry: missing event type")
	}
	return nil
}
