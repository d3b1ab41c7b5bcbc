package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dooskington/Mail-Journal/internal/config"
	"github.com/Dooskington/Mail-Journal/internal/journal"
	"github.com/Dooskington/Mail-Journal/internal/mailbox"
	"github.com/Dooskington/Mail-Journal/internal/mailer"
	"github.com/Dooskington/Mail-Journal/internal/schedule"
	"github.com/Dooskington/Mail-Journal/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(config.Path)
	if errors.Is(err, config.ErrCreatedDefault) {
		log.Infof(
			"No config file was found, so a default one was created at %s. Please edit it and run Mail Journal again.",
			config.Path,
		)
		return
	}
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Errorf("Config error! %v", err)
		os.Exit(1)
	}

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	startedAt := time.Now().UTC()
	sched := schedule.New(startedAt, cfg.ReminderHour)
	if next := sched.NextFire(); next.Day() == startedAt.Day() {
		log.Infof("Journal reminder for today is scheduled at %s", next)
	} else {
		log.Info("Journal reminder for today has been sent.")
	}

	mb := mailbox.NewClient(cfg.IMAPHost, cfg.JournalEmail, cfg.JournalPassword, log)
	ml := mailer.NewSMTPMailer(cfg)
	svc := journal.New(cfg, st, mb, ml, sched, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Mail Journal running.")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("Control loop stopped: %v", err)
		os.Exit(1)
	}
}
