package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dooskington/Mail-Journal/internal/config"
	"github.com/Dooskington/Mail-Journal/internal/model"
	"github.com/Dooskington/Mail-Journal/internal/schedule"
	"github.com/Dooskington/Mail-Journal/internal/store"
	"github.com/Dooskington/Mail-Journal/tests/testutil"
)

type fakeMailbox struct {
	emails    []model.InboundEmail
	searchErr error
	fetchErr  error
}

func (f *fakeMailbox) SearchUnseenSinceToday(
	_ context.Context, _ string, _ time.Time,
) ([]imap.UID, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	uids := make([]imap.UID, len(f.emails))
	for i := range f.emails {
		uids[i] = imap.UID(i + 1)
	}
	return uids, nil
}

func (f *fakeMailbox) Fetch(
	_ context.Context, _ []imap.UID,
) ([]model.InboundEmail, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.emails, nil
}

type fakeMailer struct {
	reminders [][]model.JournalEntry
	errs      []string
}

func (f *fakeMailer) SendReminder(lookback []model.JournalEntry) error {
	f.reminders = append(f.reminders, lookback)
	return nil
}

func (f *fakeMailer) SendError(msg string) error {
	f.errs = append(f.errs, msg)
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ReminderHour = 9
	return cfg
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// newTestService wires a Service against an in-memory store and fake
// mail collaborators, with the clock pinned to now.
func newTestService(
	t *testing.T,
	mb *fakeMailbox,
	ml *fakeMailer,
	startedAt, now time.Time,
) (*Service, store.Store) {
	t.Helper()

	st := testutil.NewTestStore(t)
	cfg := testConfig()
	sched := schedule.New(startedAt, cfg.ReminderHour)

	svc := New(cfg, st, mb, ml, sched, testLogger())
	svc.now = func() time.Time { return now }

	return svc, st
}

func TestIngestFirstEntryForDayWins(t *testing.T) {
	day := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
	mb := &fakeMailbox{
		emails: []model.InboundEmail{
			{
				From:      "john.smith@example.com",
				Subject:   "Re: Daily Journal Entry",
				Timestamp: day.Add(10 * time.Hour),
				Body:      "First entry.",
			},
			{
				From:      "john.smith@example.com",
				Subject:   "Re: Daily Journal Entry",
				Timestamp: day.Add(11 * time.Hour),
				Body:      "Second entry.",
			},
		},
	}
	ml := &fakeMailer{}

	// Started after the reminder hour so no reminder fires in this test.
	svc, st := newTestService(t, mb, ml, day.Add(12*time.Hour), day.Add(12*time.Hour))
	svc.Tick(context.Background())

	entries, err := st.FetchForDate(context.Background(), 27, 8, 2026)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "First entry.", entries[0].Body)

	require.Len(t, ml.errs, 1)
	assert.Equal(t, "You already submitted a journal entry for today!", ml.errs[0])
	assert.Empty(t, ml.reminders)
}

func TestIngestDiscardsUnauthorizedSender(t *testing.T) {
	day := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
	mb := &fakeMailbox{
		emails: []model.InboundEmail{
			{
				From:      "other@example.com",
				Subject:   "hi",
				Timestamp: day.Add(10 * time.Hour),
				Body:      "Not my journal.",
			},
		},
	}
	ml := &fakeMailer{}

	svc, st := newTestService(t, mb, ml, day.Add(12*time.Hour), day.Add(12*time.Hour))
	svc.Tick(context.Background())

	// No store mutation and no error email.
	entries, err := st.FetchForDate(context.Background(), 27, 8, 2026)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, ml.errs)
}

func TestIngestAcceptsBracketedSenderForm(t *testing.T) {
	day := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
	mb := &fakeMailbox{
		emails: []model.InboundEmail{
			{
				From:      `"Jane" <john.smith@example.com>`,
				Subject:   "Re: Daily Journal Entry",
				Timestamp: day.Add(10 * time.Hour),
				Body:      "Bracketed sender.",
			},
		},
	}
	ml := &fakeMailer{}

	svc, st := newTestService(t, mb, ml, day.Add(12*time.Hour), day.Add(12*time.Hour))
	svc.Tick(context.Background())

	entries, err := st.FetchForDate(context.Background(), 27, 8, 2026)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Bracketed sender.", entries[0].Body)
}

func TestReminderIncludesLookbackEntry(t *testing.T) {
	now := time.Date(2026, time.August, 27, 9, 30, 0, 0, time.UTC)
	startedAt := now.Add(-2 * time.Hour) // before the reminder hour

	mb := &fakeMailbox{}
	ml := &fakeMailer{}
	svc, st := newTestService(t, mb, ml, startedAt, now)

	// Entry written exactly 365 days before now.
	past := now.AddDate(0, 0, -365)
	day, month, year := model.DateParts(past)
	require.NoError(t, st.InsertEntry(context.Background(), day, month, year, "A year ago today."))

	svc.Tick(context.Background())

	require.Len(t, ml.reminders, 1)
	require.Len(t, ml.reminders[0], 1)
	assert.Equal(t, "A year ago today.", ml.reminders[0][0].Body)

	// The schedule advanced; the reminder does not fire again today.
	svc.Tick(context.Background())
	assert.Len(t, ml.reminders, 1)
}

func TestReminderWithoutLookbackEntry(t *testing.T) {
	now := time.Date(2026, time.August, 27, 9, 30, 0, 0, time.UTC)
	startedAt := now.Add(-2 * time.Hour)

	mb := &fakeMailbox{}
	ml := &fakeMailer{}
	svc, _ := newTestService(t, mb, ml, startedAt, now)

	svc.Tick(context.Background())

	require.Len(t, ml.reminders, 1)
	assert.Empty(t, ml.reminders[0])
}

func TestTickContinuesPastSearchFailure(t *testing.T) {
	now := time.Date(2026, time.August, 27, 9, 30, 0, 0, time.UTC)
	startedAt := now.Add(-2 * time.Hour)

	mb := &fakeMailbox{searchErr: errors.New("connection refused")}
	ml := &fakeMailer{}
	svc, _ := newTestService(t, mb, ml, startedAt, now)

	// The failed search is logged and skipped; the reminder still fires.
	svc.Tick(context.Background())
	assert.Len(t, ml.reminders, 1)
}
