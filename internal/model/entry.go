package model

import "time"

// JournalEntry is one stored record of the author's reply text for a
// single calendar day. At most one entry exists per (day, month, year).
type JournalEntry struct {
	ID    int64  `db:"id"`
	Day   int    `db:"day"`
	Month int    `db:"month"`
	Year  int    `db:"year"`
	Body  string `db:"body"`
}

// DateParts decomposes an instant into the integer date components
// entries are keyed by. Callers are expected to pass UTC times.
func DateParts(t time.Time) (day, month, year int) {
	return t.Day(), int(t.Month()), t.Year()
}
