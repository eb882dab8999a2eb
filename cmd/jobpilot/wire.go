package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobpilot/internal/browser"
	"github.com/jonathan/jobpilot/internal/config"
	"github.com/jonathan/jobpilot/internal/crawl"
	"github.com/jonathan/jobpilot/internal/db"
	"github.com/jonathan/jobpilot/internal/followup"
	"github.com/jonathan/jobpilot/internal/letter"
	"github.com/jonathan/jobpilot/internal/logging"
	"github.com/jonathan/jobpilot/internal/mailer"
	"github.com/jonathan/jobpilot/internal/orchestrator"
	"github.com/jonathan/jobpilot/internal/types"
)

// app holds the long-lived collaborators shared by all commands.
// Configuration problems surface here, before any pipeline work begins.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *db.DB
	letters letter.Generator // nil when no API key configured
	mail    mailer.Mailer    // nil when SMTP not configured
}

func newApp(ctx context.Context, jsonLog, debug bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(jsonLog, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: store}

	if cfg.LettersEnabled() {
		gen, err := letter.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			store.Close()
			return nil, err
		}
		a.letters = gen
	}

	if cfg.MailEnabled() {
		a.mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderEmail)
	}

	return a, nil
}

func (a *app) close() {
	if closer, ok := a.letters.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	a.store.Close()
	_ = a.log.Sync()
}

// runOnce executes one full daily pipeline run, owning a browser session
// for its duration.
func (a *app) runOnce(ctx context.Context, userID uuid.UUID, searchURL string, maxPages int, threshold float64) (*types.RunSummary, error) {
	session, err := browser.NewSession(ctx, browser.Options{
		NavTimeout: a.cfg.NavTimeout,
		SettleWait: a.cfg.SettleWait,
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	crawler := crawl.New(session, a.log)

	var followUps orchestrator.FollowUpSender
	if a.mail != nil {
		followUps = followup.New(a.store, a.mail, a.log)
	}

	orch := orchestrator.New(a.store, crawler, orchestrator.Options{
		Letters:           a.letters,
		Mail:              a.mail,
		FollowUps:         followUps,
		Log:               a.log,
		ApplicationOffset: a.cfg.ApplicationOffset,
		FollowUpDays:      a.cfg.FollowUpDays,
		ReportRecipient:   a.cfg.ReportRecipient,
	})

	return orch.RunDailyScraping(ctx, userID, searchURL, maxPages, threshold)
}
