// Package suggestion implements the suggestion lifecycle: querying the
// pending/shown queue for a station, transitioning statuses as the operator
// accepts or dismisses items, and mirroring interactions to the learning
// log. The rows themselves are owned by the persistence layer; this package
// only reads and transitions status.
package suggestion

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopfloor/pkg/protocol"
)

// PageSize bounds every suggestion query.
const PageSize = 20

// Store performs the SQLite suggestion queries and updates.
type Store struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, nowFunc: time.Now}
}

// InsertParams holds the fields for creating a suggestion.
type InsertParams struct {
	Type        protocol.SuggestionType
	Category    string
	Title       string
	Description string
	Priority    int
}

// Insert creates a pending suggestion and returns its id.
func (s *Store) Insert(ctx context.Context, p InsertParams) (string, error) {
	if p.Title == "" {
		return "", fmt.Errorf("suggestion insert: missing title")
	}
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO suggestions (id, suggestion_type, category, title, description, priority, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(p.Type), p.Category, p.Title, p.Description, p.Priority,
		string(protocol.StatusPending),
	)
	if err != nil {
		return "", fmt.Errorf("suggestion insert: %w", err)
	}
	return id, nil
}

// List returns active suggestions (pending or shown), optionally filtered to
// a category, ordered by descending priority and capped at PageSize.
func (s *Store) List(ctx context.Context, category string) ([]protocol.Suggestion, error) {
	query := `SELECT id, suggestion_type, category, title, COALESCE(description, ''),
	priority, status, created_at, COALESCE(shown_to, ''), shown_at, resolved_at
	FROM suggestions WHERE status IN (?, ?)`
	args := []any{string(protocol.StatusPending), string(protocol.StatusShown)}

	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += fmt.Sprintf(" ORDER BY priority DESC, created_at ASC LIMIT %d", PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []protocol.Suggestion
	for rows.Next() {
		var (
			sg                  protocol.Suggestion
			stype, status       string
			createdAt           string
			shownAt, resolvedAt sql.NullString
		)
		err := rows.Scan(&sg.ID, &stype, &sg.Category, &sg.Title, &sg.Description,
			&sg.Priority, &status, &createdAt, &sg.ShownTo, &shownAt, &resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.Type = protocol.SuggestionType(stype)
		sg.Status = protocol.SuggestionStatus(status)
		sg.CreatedAt = parseTime(createdAt)
		if shownAt.Valid {
			ts := parseTime(shownAt.String)
			sg.ShownAt = &ts
		}
		if resolvedAt.Valid {
			ts := parseTime(resolvedAt.String)
			sg.ResolvedAt = &ts
		}
		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return out, nil
}

// Resolve transitions a suggestion to accepted or dismissed, stamping
// resolved_at. Returns false when the id does not exist.
func (s *Store) Resolve(ctx context.Context, id string, status protocol.SuggestionStatus) (bool, error) {
	if status != protocol.StatusAccepted && status != protocol.StatusDismissed {
		return false, fmt.Errorf("resolve suggestion: invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE suggestions SET status = ?, resolved_at = ? WHERE id = ?",
		string(status), s.nowFunc().UTC().Format("2006-01-02 15:04:05"), id,
	)
	if err != nil {
		return false, fmt.Errorf("resolve suggestion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve suggestion: %w", err)
	}
	return n > 0, nil
}

// MarkShown transitions a pending suggestion to shown, recording who saw it
// and when. Local bookkeeping only: no audit mirror is written for shows.
func (s *Store) MarkShown(ctx context.Context, id, shownTo string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE suggestions SET status = ?, shown_to = ?, shown_at = ? WHERE id = ? AND status = ?",
		string(protocol.StatusShown), shownTo,
		s.nowFunc().UTC().Format("2006-01-02 15:04:05"), id,
		string(protocol.StatusPending),
	)
	if err != nil {
		return false, fmt.Errorf("mark shown: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark shown: %w", err)
	}
	return n > 0, nil
}

func parseTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
