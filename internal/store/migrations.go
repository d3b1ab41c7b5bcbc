package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Dates are stored as separate integer columns: SQLite has no real
// date type, and exact-day matching is simpler against plain integers.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	id    INTEGER PRIMARY KEY,
	day   INTEGER NOT NULL,
	month INTEGER NOT NULL,
	year  INTEGER NOT NULL,
	body  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(year, month, day);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
