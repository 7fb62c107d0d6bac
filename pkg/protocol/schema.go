package protocol

// SchemaDDL defines the SQLite schema for the station database.
// Tables: suggestions, learnings, events.
// Execute against a SQLite database with: db.Exec(SchemaDDL)
const SchemaDDL = `
-- Operator-facing suggestions surfaced by the foreman
CREATE TABLE IF NOT EXISTS suggestions (
    id TEXT PRIMARY KEY,
    suggestion_type TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    description TEXT,
    priority INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    shown_to TEXT,
    shown_at TEXT,
    resolved_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_suggestions_status
    ON suggestions (status, priority DESC);

-- Append-only learning/feedback log
CREATE TABLE IF NOT EXISTS learnings (
    id INTEGER PRIMARY KEY,
    module TEXT NOT NULL,
    learning_type TEXT NOT NULL,
    event_type TEXT NOT NULL,
    context TEXT,
    resolution TEXT,
    weight_adjustment REAL NOT NULL DEFAULT 0,
    machine_id TEXT,
    bar_code TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_learnings_module
    ON learnings (module, learning_type);

-- Tenant-scoped audit event stream, mirrored from learnings and
-- suggestion interactions
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id TEXT,
    event_type TEXT NOT NULL,
    description TEXT,
    company TEXT NOT NULL DEFAULT '',
    metadata TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_events_entity
    ON events (entity_type, entity_id);
`

// MigrateSuggestionAudience adds the shown_to/shown_at columns to suggestion
// tables created before show tracking existed. ALTER TABLE errors if the
// column already exists; callers ignore the error (try/ignore pattern).
const MigrateSuggestionAudience = `
ALTER TABLE suggestions ADD COLUMN shown_to TEXT;
ALTER TABLE suggestions ADD COLUMN shown_at TEXT;
`

// MigrateLearningBarCode adds the bar_code column to learning tables created
// before material tracking existed.
const MigrateLearningBarCode = `
ALTER TABLE learnings ADD COLUMN bar_code TEXT;
`
