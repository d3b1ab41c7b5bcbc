package store

import (
	"context"
	"errors"

	"github.com/Dooskington/Mail-Journal/internal/model"
)

// ErrDuplicateEntry is returned by InsertEntry when an entry already
// exists for the given calendar day.
var ErrDuplicateEntry = errors.New("journal entry already exists for this day")

// Store defines the persistence interface for journal entries.
type Store interface {
	// ExistsForDate reports whether any entry matches the date triple.
	ExistsForDate(ctx context.Context, day, month, year int) (bool, error)

	// InsertEntry stores a new entry for the given day. It returns
	// ErrDuplicateEntry if one already exists; the check and the
	// insert run in a single transaction.
	InsertEntry(ctx context.Context, day, month, year int, body string) error

	// FetchForDate returns all entries matching the date triple,
	// ordered by id. Zero or one rows is the normal case.
	FetchForDate(ctx context.Context, day, month, year int) ([]model.JournalEntry, error)

	Close() error
}
