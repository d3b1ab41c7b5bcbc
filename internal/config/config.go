package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Path is the fixed location of the configuration file, relative to
// the working directory.
const Path = "config.yaml"

// ErrCreatedDefault is returned by Load when no configuration file was
// found and a default template was written in its place. The operator
// is expected to edit the file and run the program again.
var ErrCreatedDefault = errors.New("default config file created")

// Config holds the static settings loaded once at startup.
type Config struct {
	// TargetEmail is the single address authorized to submit entries,
	// and the recipient of reminders and error notices.
	TargetEmail string `mapstructure:"target_email" yaml:"target_email"`

	// TargetName is the display name used when addressing the author.
	TargetName string `mapstructure:"target_name" yaml:"target_name"`

	// DBPath is the location of the SQLite database file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// SMTPHost is the outbound mail server.
	SMTPHost string `mapstructure:"smtp_host" yaml:"smtp_host"`

	// IMAPHost is the inbound mail server.
	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`

	// JournalEmail and JournalPassword are the journal mailbox's own
	// credentials, used for both IMAP and SMTP.
	JournalEmail    string `mapstructure:"journal_email" yaml:"journal_email"`
	JournalPassword string `mapstructure:"journal_password" yaml:"journal_password"`

	// ReminderHour is the UTC hour (0-23) at which the daily reminder
	// is sent.
	ReminderHour int `mapstructure:"reminder_hour" yaml:"reminder_hour"`
}

// Default returns the placeholder template written on first run.
func Default() *Config {
	return &Config{
		TargetEmail:     "john.smith@example.com",
		TargetName:      "John Smith",
		DBPath:          "mail-journal.db",
		SMTPHost:        "smtp.example.com",
		IMAPHost:        "imap.example.com",
		JournalEmail:    "mail-journal@example.com",
		JournalPassword: "password",
		ReminderHour:    0,
	}
}

// Validate checks the loaded settings for values that cannot be used.
func (c *Config) Validate() error {
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf(
			"reminder_hour must be an integer between 0 and 23 (inclusive), got %d",
			c.ReminderHour,
		)
	}
	return nil
}

// Load reads the configuration from the YAML file at path. If the file
// does not exist, a default template is written there and
// ErrCreatedDefault is returned.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, Default()); err != nil {
			return nil, err
		}
		return nil, ErrCreatedDefault
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("target_email", cfg.TargetEmail)
	v.Set("target_name", cfg.TargetName)
	v.Set("db_path", cfg.DBPath)
	v.Set("smtp_host", cfg.SMTPHost)
	v.Set("imap_host", cfg.IMAPHost)
	v.Set("journal_email", cfg.JournalEmail)
	v.Set("journal_password", cfg.JournalPassword)
	v.Set("reminder_hour", cfg.ReminderHour)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
