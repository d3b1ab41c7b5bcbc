package schedule

import "time"

// Schedule tracks the next UTC instant at which the daily reminder is
// due. There is exactly one per process, owned by the control loop.
type Schedule struct {
	next time.Time
}

// New computes the first fire instant: today's UTC midnight plus the
// configured hour. If now is already at or past that instant, the
// reminder for the current day is skipped and the schedule starts at
// the same hour the following day. Schedule state is not persisted
// across restarts.
func New(now time.Time, reminderHour int) *Schedule {
	utc := now.UTC()
	next := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(reminderHour) * time.Hour)

	s := &Schedule{next: next}
	if !utc.Before(next) {
		s.Advance()
	}
	return s
}

// Due reports whether the reminder should fire at the given instant.
func (s *Schedule) Due(now time.Time) bool {
	return !now.UTC().Before(s.next)
}

// Advance moves the fire instant exactly 24 hours forward. The next
// instant is not re-derived from the current date; under UTC with no
// leap-second handling the two are equivalent.
func (s *Schedule) Advance() {
	s.next = s.next.Add(24 * time.Hour)
}

// NextFire returns the instant the next reminder is due.
func (s *Schedule) NextFire() time.Time {
	return s.next
}
