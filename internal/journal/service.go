package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/sirupsen/logrus"

	"github.com/Dooskington/Mail-Journal/internal/config"
	"github.com/Dooskington/Mail-Journal/internal/mailer"
	"github.com/Dooskington/Mail-Journal/internal/model"
	"github.com/Dooskington/Mail-Journal/internal/schedule"
	"github.com/Dooskington/Mail-Journal/internal/store"
)

// tickInterval is the fixed sleep between control loop iterations. It
// is additive to any blocking network latency within a tick.
const tickInterval = 2 * time.Second

// lookbackDays is how far back the reminder's "on this day" section reaches.
const lookbackDays = 365

// duplicateEntryNotice is the body of the rejection email sent when a
// second reply arrives for a day that already has an entry.
const duplicateEntryNotice = "You already submitted a journal entry for today!"

// Mailbox is the inbound mail surface the control loop polls each tick.
type Mailbox interface {
	SearchUnseenSinceToday(ctx context.Context, from string, now time.Time) ([]imap.UID, error)
	Fetch(ctx context.Context, uids []imap.UID) ([]model.InboundEmail, error)
}

// Service is the control loop: it coordinates the mailbox, the entry
// store, the reminder schedule, and the mailer, one tick at a time.
type Service struct {
	cfg     *config.Config
	store   store.Store
	mailbox Mailbox
	mailer  mailer.Mailer
	sched   *schedule.Schedule
	log     *logrus.Logger
	now     func() time.Time
}

// New creates the control loop service.
func New(
	cfg *config.Config,
	st store.Store,
	mb Mailbox,
	ml mailer.Mailer,
	sched *schedule.Schedule,
	log *logrus.Logger,
) *Service {
	return &Service{
		cfg:     cfg,
		store:   st,
		mailbox: mb,
		mailer:  ml,
		sched:   sched,
		log:     log,
		now:     time.Now,
	}
}

// Run executes ticks until ctx is cancelled. There is no other
// termination condition.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick runs one poll-and-check cycle: ingest new mail, then fire the
// reminder if it is due. A transport failure is logged and the
// affected step skipped; the loop keeps running.
func (s *Service) Tick(ctx context.Context) {
	now := s.now().UTC()

	s.pollMail(ctx, now)

	if !s.sched.Due(now) {
		return
	}

	if err := s.remind(ctx, now); err != nil {
		// Not advanced; the reminder is retried next tick.
		s.log.Errorf("Sending reminder failed: %v", err)
		return
	}

	s.sched.Advance()
	s.log.Infof(
		"Journal reminder for %s sent. Next reminder scheduled for %s",
		now, s.sched.NextFire(),
	)
}

// pollMail searches for new journal replies and ingests each of them.
func (s *Service) pollMail(ctx context.Context, now time.Time) {
	uids, err := s.mailbox.SearchUnseenSinceToday(ctx, s.cfg.TargetEmail, now)
	if err != nil {
		s.log.Errorf("Searching for new journal emails failed: %v", err)
		return
	}
	if len(uids) == 0 {
		return
	}

	s.log.Infof("%d new email(s)", len(uids))

	emails, err := s.mailbox.Fetch(ctx, uids)
	if err != nil {
		s.log.Errorf("Fetching journal emails failed: %v", err)
		return
	}

	for _, email := range emails {
		if err := s.ingest(ctx, email); err != nil {
			s.log.Errorf("Storing journal email failed: %v", err)
		}
	}
}

// ingest applies the ingestion policy to one fetched email: the sender
// must be the authorized author, and the first entry for a calendar
// day wins. A later reply for the same day is rejected with an error
// notification, never merged or overwritten.
func (s *Service) ingest(ctx context.Context, email model.InboundEmail) error {
	if !s.authorized(email.From) {
		s.log.Infof("Ignoring email from %s", email.From)
		return nil
	}

	day, month, year := model.DateParts(email.Timestamp.UTC())

	exists, err := s.store.ExistsForDate(ctx, day, month, year)
	if err != nil {
		return fmt.Errorf("checking for existing entry: %w", err)
	}

	if !exists {
		err := s.store.InsertEntry(ctx, day, month, year, email.Body)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicateEntry) {
			return fmt.Errorf("inserting entry: %w", err)
		}
	}

	s.log.Info("Journal entry for today was already submitted, ignoring new entry.")
	if err := s.mailer.SendError(duplicateEntryNotice); err != nil {
		return fmt.Errorf("sending duplicate-entry notification: %w", err)
	}
	return nil
}

// authorized matches the sender against the target address, either
// exactly or in the bracketed "Display Name <address>" form.
func (s *Service) authorized(from string) bool {
	return from == s.cfg.TargetEmail ||
		strings.Contains(from, "<"+s.cfg.TargetEmail+">")
}

// remind sends the daily reminder, surfacing any entries written
// exactly 365 days before now.
func (s *Service) remind(ctx context.Context, now time.Time) error {
	day, month, year := model.DateParts(now.AddDate(0, 0, -lookbackDays))

	lookback, err := s.store.FetchForDate(ctx, day, month, year)
	if err != nil {
		return fmt.Errorf("fetching lookback entries: %w", err)
	}

	if err := s.mailer.SendReminder(lookback); err != nil {
		return fmt.Errorf("sending reminder: %w", err)
	}
	return nil
}
