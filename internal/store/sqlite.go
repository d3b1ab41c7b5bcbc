package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Dooskington/Mail-Journal/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ExistsForDate reports whether any entry matches the date triple exactly.
func (s *SQLiteStore) ExistsForDate(
	ctx context.Context,
	day, month, year int,
) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM entries WHERE day = ? AND month = ? AND year = ?",
		day, month, year,
	)
	if err != nil {
		return false, fmt.Errorf("checking entry for %d-%d-%d: %w", year, month, day, err)
	}
	return count > 0, nil
}

// InsertEntry stores a new journal entry for the given day. The
// existence check and insert share one transaction, so at most one
// entry can ever exist per calendar day regardless of caller ordering.
func (s *SQLiteStore) InsertEntry(
	ctx context.Context,
	day, month, year int,
	body string,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM entries WHERE day = ? AND month = ? AND year = ?",
		day, month, year,
	)
	if err != nil {
		return fmt.Errorf("checking entry for %d-%d-%d: %w", year, month, day, err)
	}
	if count > 0 {
		return ErrDuplicateEntry
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO entries (day, month, year, body) VALUES (?, ?, ?, ?)",
		day, month, year, body,
	)
	if err != nil {
		return fmt.Errorf("inserting entry for %d-%d-%d: %w", year, month, day, err)
	}

	return tx.Commit()
}

// FetchForDate returns all entries matching the date triple, ordered by id.
func (s *SQLiteStore) FetchForDate(
	ctx context.Context,
	day, month, year int,
) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT id, day, month, year, body FROM entries WHERE day = ? AND month = ? AND year = ? ORDER BY id",
		day, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching entries for %d-%d-%d: %w", year, month, day, err)
	}
	return entries, nil
}
