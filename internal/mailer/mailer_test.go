package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dooskington/Mail-Journal/internal/model"
)

func TestComposeReminderWithoutLookback(t *testing.T) {
	body := composeReminder(nil)

	assert.Equal(t, reminderPrompt, body)
	assert.NotContains(t, body, "one year ago")
}

func TestComposeReminderWithLookback(t *testing.T) {
	entries := []model.JournalEntry{
		{Day: 27, Month: 8, Year: 2025, Body: "  Went hiking today.\n"},
	}

	body := composeReminder(entries)

	assert.Contains(t, body, reminderPrompt)
	assert.Contains(t, body, "On this day, one year ago:")
	// The stored body is quoted and trimmed at render time.
	assert.Contains(t, body, `"Went hiking today."`)
}
