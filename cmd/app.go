package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxpilot/internal/agent"
	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/brain"
	"github.com/teemow/inboxpilot/internal/briefing"
	"github.com/teemow/inboxpilot/internal/config"
	"github.com/teemow/inboxpilot/internal/contacts"
	"github.com/teemow/inboxpilot/internal/drafts"
	"github.com/teemow/inboxpilot/internal/gmail"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/state"
	"github.com/teemow/inboxpilot/internal/tasks"
	"github.com/teemow/inboxpilot/internal/users"
)

// app bundles the wired application. Every command that touches the
// pipeline goes through here so the composition lives in one place.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	provider  *instrumentation.Provider
	directory *users.FileDirectory
	drafts    drafts.Store
	auditFile *audit.FileRecorder

	orchestrator *agent.Orchestrator
	fleet        *agent.Fleet
	briefings    *briefing.Service

	pool *pgxpool.Pool
}

// newApp loads configuration and wires the full pipeline. The caller
// must invoke close when done.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default()

	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	metrics := provider.Metrics()

	directory, err := users.NewFileDirectory(cfg.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		directory: directory,
	}

	stateStore := state.Store(state.NewFileStore(filepath.Join(cfg.DataDir, "state")))
	auditFile := audit.NewFileRecorder(filepath.Join(cfg.DataDir, "audit"))
	auditRec := audit.Recorder(auditFile)
	a.auditFile = auditFile

	// When Postgres is configured it becomes the primary backend and
	// the file stores stay on as fallback.
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.pool = pool
		stateStore = state.NewFallback(state.NewPostgresStore(pool), stateStore, logger, func() {
			metrics.RecordPersistenceFallback(context.Background(), "state")
		})
		auditRec = audit.NewFallback(audit.NewPostgresRecorder(pool), auditRec, logger, func() {
			metrics.RecordPersistenceFallback(context.Background(), "audit")
		})
	}

	draftStore := drafts.NewFileStore(filepath.Join(cfg.DataDir, "drafts"))
	a.drafts = draftStore

	model := brain.NewAnthropicClient(brain.AnthropicConfig{
		APIKey:        cfg.Anthropic.APIKey,
		BaseURL:       cfg.Anthropic.BaseURL,
		FastModel:     cfg.Anthropic.FastModel,
		DeepModel:     cfg.Anthropic.DeepModel,
		FastMaxTokens: cfg.Anthropic.FastMaxTokens,
		DeepMaxTokens: cfg.Anthropic.DeepMaxTokens,
		Observer: func(tier brain.Tier, status string, elapsed time.Duration) {
			metrics.RecordLLMRequest(context.Background(), string(tier), status, elapsed)
		},
	})

	analyzer := brain.NewAnalyzer(model, logger)
	drafter := brain.NewDrafter(model, logger, 0)
	briefer := brain.NewBriefer(model, logger)
	clients := newGoogleClients()

	agentCfg := agent.Config{
		MaxEmailsPerFetch: cfg.MaxEmailsPerFetch,
		BodyLimit:         cfg.MaxEmailBodyChars,
	}

	a.orchestrator = agent.NewOrchestrator(agent.Deps{
		Directory: directory,
		State:     stateStore,
		Drafts:    draftStore,
		Audit:     auditRec,
		Clients:   clients,
		Analyzer:  analyzer,
		Drafter:   drafter,
		Metrics:   metrics,
		Logger:    logger,
	}, agentCfg)

	a.fleet = agent.NewFleet(a.orchestrator, directory, auditRec, metrics, logger)

	a.briefings = briefing.NewService(directory, clients, analyzer, briefer,
		briefing.NewFileStore(filepath.Join(cfg.DataDir, "briefings")), logger, agentCfg)

	return a, nil
}

// withApp wires the application for one short-lived command and tears
// it down afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.close(closeCtx)
	}()

	return fn(ctx, a)
}

// close releases the app's external resources.
func (a *app) close(ctx context.Context) {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.provider != nil {
		if err := a.provider.Shutdown(ctx); err != nil {
			a.logger.Error("instrumentation shutdown failed", "error", err)
		}
	}
}

// googleClients is the production agent.Clients backed by per-account
// Google API clients, created lazily and cached for the process
// lifetime.
type googleClients struct {
	mu        sync.Mutex
	mailboxes map[string]agent.Mailbox
	taskers   map[string]agent.TaskCreator
	enrichers map[string]agent.Enricher
}

func newGoogleClients() *googleClients {
	return &googleClients{
		mailboxes: make(map[string]agent.Mailbox),
		taskers:   make(map[string]agent.TaskCreator),
		enrichers: make(map[string]agent.Enricher),
	}
}

func (g *googleClients) Mailbox(ctx context.Context, account string) (agent.Mailbox, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if mb, ok := g.mailboxes[account]; ok {
		return mb, nil
	}
	mb, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	g.mailboxes[account] = mb
	return mb, nil
}

func (g *googleClients) Tasks(ctx context.Context, account string) (agent.TaskCreator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if tc, ok := g.taskers[account]; ok {
		return tc, nil
	}
	tc, err := tasks.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	g.taskers[account] = tc
	return tc, nil
}

func (g *googleClients) Contacts(ctx context.Context, account string) (agent.Enricher, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.enrichers[account]; ok {
		return e, nil
	}
	e, err := contacts.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	g.enrichers[account] = e
	return e, nil
}
