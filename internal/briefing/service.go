package briefing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/inboxpilot/internal/agent"
	"github.com/teemow/inboxpilot/internal/brain"
	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/mail"
	"github.com/teemow/inboxpilot/internal/users"
)

// Generator renders one briefing from analyzed mail. *brain.Briefer
// satisfies this.
type Generator interface {
	Generate(ctx context.Context, userID, userName string, batch []mail.Annotated) *brain.Briefing
}

// Service generates and stores briefings for users.
type Service struct {
	directory users.Directory
	clients   agent.Clients
	analyzer  agent.Analyzer
	briefer   Generator
	store     Store
	logger    *slog.Logger
	cfg       agent.Config
}

// NewService builds the briefing service.
func NewService(directory users.Directory, clients agent.Clients, analyzer agent.Analyzer, briefer Generator, store Store, logger *slog.Logger, cfg agent.Config) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxEmailsPerFetch <= 0 {
		cfg.MaxEmailsPerFetch = agent.DefaultMaxEmailsPerFetch
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = agent.DefaultBodyLimit
	}
	return &Service{
		directory: directory,
		clients:   clients,
		analyzer:  analyzer,
		briefer:   briefer,
		store:     store,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run generates the briefing for one user and stores it. A store
// failure is logged but does not discard the briefing.
func (s *Service) Run(ctx context.Context, userID string) (*brain.Briefing, error) {
	user, err := s.directory.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts := user.ActiveAccounts()
	if len(accounts) == 0 {
		return nil, fmt.Errorf("user %s has no active accounts", userID)
	}

	logger := logging.WithUser(s.logger, userID)

	var batch []mail.Message
	for _, acct := range accounts {
		mb, err := s.clients.Mailbox(ctx, acct.Email)
		if err != nil {
			logger.Warn("mailbox unavailable for briefing", logging.Account(acct.Email), logging.Err(err))
			continue
		}
		msgs, err := mb.FetchUnread(ctx, s.cfg.MaxEmailsPerFetch, nil, s.cfg.BodyLimit)
		if err != nil {
			logger.Warn("briefing fetch failed", logging.Account(acct.Email), logging.Err(err))
			continue
		}
		batch = append(batch, msgs...)
	}

	annotated := s.analyzer.Analyze(ctx, batch, user.Settings.VIPContacts)
	briefing := s.briefer.Generate(ctx, userID, user.Name, annotated)

	if err := s.store.Put(ctx, briefing); err != nil {
		logger.Error("failed to store briefing", logging.Err(err))
	}
	return briefing, nil
}
