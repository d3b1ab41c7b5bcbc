package mailer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/Dooskington/Mail-Journal/internal/config"
	"github.com/Dooskington/Mail-Journal/internal/model"
)

const (
	senderName      = "Mail Journal"
	reminderSubject = "Daily Journal Entry"
	errorSubject    = "Error"

	reminderPrompt = "How was your day today? Reply to this email with your daily journal entry."

	// smtpPort is the standard SMTP submission port over implicit TLS.
	smtpPort = 465
)

// Mailer sends the daily reminder and error notifications.
type Mailer interface {
	// SendReminder sends the daily prompt, quoting any journal
	// entries written exactly one year before.
	SendReminder(lookback []model.JournalEntry) error

	// SendError sends a fixed-subject notification with the given
	// plain-text body.
	SendError(msg string) error
}

// SMTPMailer delivers mail over an authenticated TLS SMTP session. The
// connection is reused for the duration of each send and closed
// explicitly afterwards.
type SMTPMailer struct {
	host        string
	username    string
	password    string
	targetEmail string
	targetName  string
}

// NewSMTPMailer creates a mailer using the journal mailbox's credentials.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.SMTPHost,
		username:    cfg.JournalEmail,
		password:    cfg.JournalPassword,
		targetEmail: cfg.TargetEmail,
		targetName:  cfg.TargetName,
	}
}

func (m *SMTPMailer) SendReminder(lookback []model.JournalEntry) error {
	return m.send(reminderSubject, composeReminder(lookback))
}

func (m *SMTPMailer) SendError(msg string) error {
	return m.send(errorSubject, msg)
}

func (m *SMTPMailer) send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.username, senderName)
	msg.SetAddressHeader("To", m.targetEmail, m.targetName)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.New(), m.host))
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, smtpPort, m.username, m.password)
	d.SSL = true

	sender, err := d.Dial()
	if err != nil {
		return fmt.Errorf("dialing SMTP %s: %w", m.host, err)
	}
	defer sender.Close()

	if err := gomail.Send(sender, msg); err != nil {
		return fmt.Errorf("sending %q to %s: %w", subject, m.targetEmail, err)
	}

	return nil
}

// composeReminder renders the reminder body. Lookback entry bodies are
// trimmed only here, at render time; stored text is never modified.
func composeReminder(lookback []model.JournalEntry) string {
	var b strings.Builder
	b.WriteString(reminderPrompt)

	if len(lookback) > 0 {
		b.WriteString("\n\nOn this day, one year ago:\n")
		for _, entry := range lookback {
			b.WriteString(`"` + strings.TrimSpace(entry.Body) + `"`)
		}
	}

	return b.String()
}
