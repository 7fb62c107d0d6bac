package learning

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shopfloor/pkg/protocol"
)

// Row is one stored learning entry with its database identity.
type Row struct {
	ID        int64
	Entry     protocol.LearningEntry
	CreatedAt time.Time
}

// QueryOpts specifies filter criteria for reading the learning log.
type QueryOpts struct {
	// Module filters entries to one operational category.
	Module string

	// LearningType filters to one type (e.g. "blocker", "success").
	LearningType protocol.LearningType

	// After filters entries created at or after this time.
	After *time.Time

	// Before filters entries created at or before this time.
	Before *time.Time

	// Limit restricts the number of results (0 = no limit).
	Limit int
}

// Reader provides read-only access to the learning log for the CLI and the
// dashboard. Writes go through Store; Reader never mutates.
type Reader struct {
	db *sql.DB
}

// NewReader wraps an open database handle.
func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Query retrieves learning entries matching the criteria, newest first.
// Returns an empty slice when nothing matches.
func (r *Reader) Query(ctx context.Context, opts QueryOpts) ([]Row, error) {
	query, args := buildQuery(opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query learnings: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row        Row
			ltype      string
			contextStr sql.NullString
			resolution sql.NullString
			machineID  sql.NullString
			barCode    sql.NullString
			createdAt  string
		)
		err := rows.Scan(
			&row.ID,
			&row.Entry.Module,
			&ltype,
			&row.Entry.EventType,
			&contextStr,
			&resolution,
			&row.Entry.WeightAdjustment,
			&machineID,
			&barCode,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan learning: %w", err)
		}
		row.Entry.LearningType = protocol.LearningType(ltype)
		if contextStr.String != "" && contextStr.String != "{}" {
			var m map[string]string
			if err := json.Unmarshal([]byte(contextStr.String), &m); err == nil {
				row.Entry.Context = m
			}
		}
		row.Entry.Resolution = resolution.String
		row.Entry.MachineID = machineID.String
		row.Entry.BarCode = barCode.String
		row.CreatedAt = parseSQLiteTime(createdAt)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learnings: %w", err)
	}
	return out, nil
}

// WeightSum returns the accumulated weight adjustment for a module: the
// tunable signal future prioritization reads.
func (r *Reader) WeightSum(ctx context.Context, module string) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(weight_adjustment) FROM learnings WHERE module = ?", module,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum weights: %w", err)
	}
	return sum.Float64, nil
}

// buildQuery constructs the SQL query and arguments from QueryOpts.
func buildQuery(opts QueryOpts) (string, []any) {
	var conditions []string
	var args []any

	query := `SELECT id, module, learning_type, event_type, context, resolution,
	weight_adjustment, machine_id, bar_code, created_at FROM learnings WHERE 1=1`

	if opts.Module != "" {
		conditions = append(conditions, "module = ?")
		args = append(args, opts.Module)
	}
	if opts.LearningType != "" {
		conditions = append(conditions, "learning_type = ?")
		args = append(args, string(opts.LearningType))
	}
	if opts.After != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, opts.After.UTC().Format("2006-01-02 15:04:05"))
	}
	if opts.Before != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, opts.Before.UTC().Format("2006-01-02 15:04:05"))
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return query, args
}

// parseSQLiteTime handles both SQLite datetime('now') format and RFC3339.
func parseSQLiteTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
