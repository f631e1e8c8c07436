package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/audit"
	"github.com/teemow/inboxpilot/internal/brain"
	"github.com/teemow/inboxpilot/internal/contacts"
	"github.com/teemow/inboxpilot/internal/drafts"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/mail"
	"github.com/teemow/inboxpilot/internal/state"
	"github.com/teemow/inboxpilot/internal/tasks"
	"github.com/teemow/inboxpilot/internal/users"
)

// Defaults for the cycle configuration.
const (
	DefaultMaxEmailsPerFetch = 50
	DefaultBodyLimit         = 1500
)

// Config tunes one cycle.
type Config struct {
	// MaxEmailsPerFetch caps how many unread messages are pulled per
	// account per cycle.
	MaxEmailsPerFetch int64
	// BodyLimit truncates message bodies at normalization time.
	BodyLimit int
}

func (c Config) withDefaults() Config {
	if c.MaxEmailsPerFetch <= 0 {
		c.MaxEmailsPerFetch = DefaultMaxEmailsPerFetch
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = DefaultBodyLimit
	}
	return c
}

// Deps bundles the orchestrator's collaborators. Metrics may be nil.
type Deps struct {
	Directory users.Directory
	State     state.Store
	Drafts    drafts.Store
	Audit     audit.Recorder
	Clients   Clients
	Analyzer  Analyzer
	Drafter   Drafter
	Metrics   *instrumentation.Metrics
	Logger    *slog.Logger
}

// Orchestrator runs processing cycles for single users.
type Orchestrator struct {
	deps Deps
	cfg  Config
	now  func() time.Time
}

// NewOrchestrator builds an orchestrator from its collaborators.
func NewOrchestrator(deps Deps, cfg Config) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Orchestrator{
		deps: deps,
		cfg:  cfg.withDefaults(),
		now:  time.Now,
	}
}

// RunCycle processes one user's unread mail. It always returns a result;
// failures inside the cycle are captured per message rather than
// aborting the run.
func (o *Orchestrator) RunCycle(ctx context.Context, userID string) *CycleResult {
	ctx, span := instrumentation.StartCycleSpan(ctx, userID)
	defer span.End()

	result := &CycleResult{
		UserID: userID,
		Status: StatusOK,
		Start:  o.now(),
	}
	logger := logging.WithUser(o.deps.Logger, userID)

	user, err := o.deps.Directory.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			logger.Error("user lookup failed", logging.Err(err))
		}
		result.Status = StatusNotFound
		result.End = o.now()
		o.deps.Metrics.RecordCycle(ctx, string(result.Status), 0, result.Elapsed())
		return result
	}

	accounts := user.ActiveAccounts()
	if len(accounts) == 0 {
		logger.Info("no active accounts, skipping cycle")
		result.Status = StatusSkipped
		result.End = o.now()
		o.deps.Metrics.RecordCycle(ctx, string(result.Status), 0, result.Elapsed())
		return result
	}

	processed, err := o.deps.State.Load(ctx, userID)
	if err != nil {
		// Losing the idempotency state means some mail may be handled
		// twice; that beats handling none at all.
		logger.Warn("processed-id state unavailable, starting empty", logging.Err(err))
		processed = state.NewProcessedSet()
		result.Errors = append(result.Errors, audit.CycleError{Stage: "state_load", Error: err.Error()})
	}

	mailboxes := make(map[string]Mailbox, len(accounts))
	var batch []mail.Message
	for _, acct := range accounts {
		mb, err := o.deps.Clients.Mailbox(ctx, acct.Email)
		if err != nil {
			logger.Error("mailbox unavailable", logging.Account(acct.Email), logging.Err(err))
			result.Errors = append(result.Errors, audit.CycleError{Stage: "connect", Error: err.Error()})
			continue
		}
		mailboxes[acct.Email] = mb

		fetchStart := o.now()
		msgs, err := mb.FetchUnread(ctx, o.cfg.MaxEmailsPerFetch,
			func(id string) bool { return !processed.Contains(id) },
			o.cfg.BodyLimit)
		if err != nil {
			logger.Error("fetch failed", logging.Account(acct.Email), logging.Err(err))
			result.Errors = append(result.Errors, audit.CycleError{Stage: "fetch", Error: err.Error()})
			o.deps.Metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail,
				instrumentation.OperationList, acct.Email, instrumentation.StatusError, o.now().Sub(fetchStart))
			continue
		}
		o.deps.Metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail,
			instrumentation.OperationList, acct.Email, instrumentation.StatusSuccess, o.now().Sub(fetchStart))
		batch = append(batch, msgs...)
	}

	if len(batch) == 0 {
		o.finish(ctx, logger, userID, processed, result)
		return result
	}

	vips := o.vipList(ctx, user, batch)
	annotated := o.deps.Analyzer.Analyze(ctx, batch, vips)
	result.EmailsProcessed = len(annotated)

	taskers := make(map[string]TaskCreator)
	for _, ann := range annotated {
		record, errs, failed := o.processMessage(ctx, logger, user, mailboxes, taskers, ann)
		result.Errors = append(result.Errors, errs...)
		if failed {
			// Not marked processed, so the message is retried next cycle.
			continue
		}
		result.Actions = append(result.Actions, record)
		for _, a := range record.Actions {
			switch a {
			case audit.SubActionTaskCreated:
				result.TasksCreated++
			case audit.SubActionDraftCreated:
				result.DraftsCreated++
			}
		}
		processed.Add(ann.Message.ID)
	}

	o.finish(ctx, logger, userID, processed, result)
	return result
}

// vipList merges the user's configured VIP contacts with senders the
// address book marks as VIP. Lookup failures leave the configured list
// untouched.
func (o *Orchestrator) vipList(ctx context.Context, user *users.User, batch []mail.Message) []string {
	vips := append([]string(nil), user.Settings.VIPContacts...)

	enrichers := make(map[string]Enricher)
	seen := make(map[string]struct{})
	for _, msg := range batch {
		sender := strings.ToLower(msg.Sender.Email)
		if sender == "" {
			continue
		}
		if _, done := seen[sender]; done {
			continue
		}
		seen[sender] = struct{}{}

		enricher, ok := enrichers[msg.Account]
		if !ok {
			var err error
			enricher, err = o.deps.Clients.Contacts(ctx, msg.Account)
			if err != nil {
				enricher = nil
			}
			enrichers[msg.Account] = enricher
		}
		if enricher == nil {
			continue
		}

		contact, err := enricher.Lookup(ctx, sender)
		if err != nil || contact == nil {
			continue
		}
		if contact.Relationship == contacts.RelationshipVIP {
			vips = append(vips, sender)
		}
	}
	return vips
}

// processMessage applies the per-message pipeline: label, task, draft.
// A panic while handling one message is contained here so the rest of
// the batch still gets processed; the failed message reports failed so
// the caller leaves it out of the processed set and retries it next
// cycle.
func (o *Orchestrator) processMessage(ctx context.Context, logger *slog.Logger, user *users.User, mailboxes map[string]Mailbox, taskers map[string]TaskCreator, ann mail.Annotated) (record audit.ActionRecord, errs []audit.CycleError, failed bool) {
	msg, analysis := ann.Message, ann.Analysis

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing message",
				logging.MessageID(msg.ID), slog.Any("panic", r))
			errs = append(errs, audit.CycleError{
				MessageID: msg.ID,
				Stage:     "process",
				Error:     fmt.Sprintf("panic: %v", r),
			})
			failed = true
		}
	}()

	record = audit.ActionRecord{
		MessageID: msg.ID,
		Account:   msg.Account,
		Sender:    msg.Sender.Email,
		Subject:   msg.Subject,
		Priority:  analysis.Priority,
		Category:  analysis.Category,
		VIP:       analysis.VIP || user.Settings.IsVIP(msg.Sender.Email),
		Summary:   analysis.Summary,
		Timestamp: o.now(),
	}

	mb := mailboxes[msg.Account]

	if mb != nil {
		if label, ok := categoryLabels[analysis.Category]; ok {
			if err := mb.ApplyLabel(ctx, msg.ID, label); err != nil {
				errs = append(errs, audit.CycleError{MessageID: msg.ID, Stage: "label", Error: err.Error()})
			} else {
				record.Actions = append(record.Actions, audit.SubActionLabeled)
				o.deps.Metrics.RecordAction(ctx, string(audit.SubActionLabeled))
			}
		}
		// The VIP label does not depend on a category opinion, mirroring
		// the VIP task rule.
		if record.VIP {
			if err := mb.ApplyLabel(ctx, msg.ID, VIPLabel); err != nil {
				errs = append(errs, audit.CycleError{MessageID: msg.ID, Stage: "label", Error: err.Error()})
			}
		}
	}

	if analysis.Category == mail.CategoryActionRequired ||
		analysis.Category == mail.CategoryWaitingOn ||
		record.VIP {
		if err := o.createTask(ctx, taskers, ann); err != nil {
			errs = append(errs, audit.CycleError{MessageID: msg.ID, Stage: "task", Error: err.Error()})
		} else {
			record.Actions = append(record.Actions, audit.SubActionTaskCreated)
			o.deps.Metrics.RecordAction(ctx, string(audit.SubActionTaskCreated))
		}
	}

	if analysis.Category == mail.CategoryActionRequired &&
		user.Settings.AllowsAutoDraft(msg.Sender.Email) {
		if err := o.autoDraft(ctx, user, ann); err != nil {
			errs = append(errs, audit.CycleError{MessageID: msg.ID, Stage: "draft", Error: err.Error()})
		} else {
			record.Actions = append(record.Actions, audit.SubActionDraftCreated)
			o.deps.Metrics.RecordAction(ctx, string(audit.SubActionDraftCreated))
		}
	}

	return record, errs, false
}

// createTask files a task for one actionable email.
func (o *Orchestrator) createTask(ctx context.Context, taskers map[string]TaskCreator, ann mail.Annotated) error {
	tc, ok := taskers[ann.Message.Account]
	if !ok {
		var err error
		tc, err = o.deps.Clients.Tasks(ctx, ann.Message.Account)
		if err != nil {
			return fmt.Errorf("failed to connect tasks service: %w", err)
		}
		taskers[ann.Message.Account] = tc
	}

	_, err := tc.CreateEmailTask(ctx, tasks.EmailTask{
		Message:  ann.Message,
		Analysis: ann.Analysis,
		Due:      dueDate(o.now(), ann.Analysis.Priority),
	})
	return err
}

// autoDraft generates and stores a pending reply draft for review.
func (o *Orchestrator) autoDraft(ctx context.Context, user *users.User, ann mail.Annotated) error {
	instructions := "Respond to this email appropriately. Context: "
	if ann.Analysis.SuggestedAction != "" {
		instructions += ann.Analysis.SuggestedAction
	} else {
		instructions += "Reply professionally."
	}

	draft := o.deps.Drafter.DraftReply(ctx, brain.DraftRequest{
		Message:      ann.Message,
		Instructions: instructions,
		Tone:         user.Settings.DraftTone,
		UserName:     user.Name,
	})
	draft.UserID = user.ID

	return o.deps.Drafts.Put(ctx, draft)
}

// finish persists the processed-id set, writes the audit entry, and
// records metrics. Neither write failing fails the cycle.
func (o *Orchestrator) finish(ctx context.Context, logger *slog.Logger, userID string, processed *state.ProcessedSet, result *CycleResult) {
	result.End = o.now()

	if err := o.deps.State.Save(ctx, userID, processed); err != nil {
		logger.Error("failed to save processed ids", logging.Err(err))
		result.Errors = append(result.Errors, audit.CycleError{Stage: "state_save", Error: err.Error()})
	}

	if err := o.deps.Audit.RecordCycle(ctx, result.auditEntry()); err != nil {
		logger.Error("failed to record cycle audit entry", logging.Err(err))
	}

	o.deps.Metrics.RecordCycle(ctx, string(result.Status), result.EmailsProcessed, result.Elapsed())
	logger.Info("cycle finished",
		logging.Status(string(result.Status)),
		logging.Duration(result.Elapsed()),
		slog.Int("emails", result.EmailsProcessed),
		slog.Int("tasks", result.TasksCreated),
		slog.Int("drafts", result.DraftsCreated),
		slog.Int("errors", len(result.Errors)),
	)
}

// ApproveDraft pushes a pending draft into the account's mailbox as a
// Gmail draft and marks it approved.
func (o *Orchestrator) ApproveDraft(ctx context.Context, draftID string) error {
	draft, err := o.deps.Drafts.Get(ctx, draftID)
	if err != nil {
		return err
	}
	if draft.Status != drafts.StatusPending {
		return fmt.Errorf("draft %s is %s, not pending", draftID, draft.Status)
	}

	mb, err := o.deps.Clients.Mailbox(ctx, draft.Account)
	if err != nil {
		return fmt.Errorf("failed to connect mailbox: %w", err)
	}
	if _, err := mb.CreateReplyDraft(ctx, draft.ThreadID, draft.To, draft.Subject, draft.Body); err != nil {
		return err
	}

	return o.deps.Drafts.SetStatus(ctx, draftID, drafts.StatusApproved)
}

// RejectDraft marks a pending draft rejected without touching the
// mailbox.
func (o *Orchestrator) RejectDraft(ctx context.Context, draftID string) error {
	draft, err := o.deps.Drafts.Get(ctx, draftID)
	if err != nil {
		return err
	}
	if draft.Status != drafts.StatusPending {
		return fmt.Errorf("draft %s is %s, not pending", draftID, draft.Status)
	}
	return o.deps.Drafts.SetStatus(ctx, draftID, drafts.StatusRejected)
}
