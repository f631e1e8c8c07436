package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/inboxpilot/internal/drafts"
	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/mail"
)

// DefaultMaxDraftRounds bounds the evaluator-optimizer loop.
const DefaultMaxDraftRounds = 2

// acceptScore is the evaluator score at which a draft is accepted
// regardless of the pass flag.
const acceptScore = 8

// DraftRequest describes one reply to generate.
type DraftRequest struct {
	Message      mail.Message
	Instructions string
	Tone         string
	UserName     string
}

// Drafter generates reply drafts through the evaluator-optimizer loop
// plus a safety review.
type Drafter struct {
	model     ModelClient
	logger    *slog.Logger
	maxRounds int
}

// NewDrafter builds a drafter. maxRounds <= 0 selects the default.
func NewDrafter(model ModelClient, logger *slog.Logger, maxRounds int) *Drafter {
	if logger == nil {
		logger = slog.Default()
	}
	if maxRounds <= 0 {
		maxRounds = DefaultMaxDraftRounds
	}
	return &Drafter{model: model, logger: logger, maxRounds: maxRounds}
}

// evaluation is the evaluator's verdict on one draft.
type evaluation struct {
	Scores       map[string]int `json:"scores"`
	OverallScore int            `json:"overall_score"`
	Pass         bool           `json:"pass"`
	Feedback     string         `json:"feedback"`
}

// safetyVerdict is the guardrail's verdict on the final draft body.
type safetyVerdict struct {
	Safe     bool     `json:"safe"`
	Flags    []string `json:"flags"`
	Severity string   `json:"severity"`
}

// DraftReply generates a reply draft. It never returns an error: an
// irrecoverable generation failure yields a pending draft whose body
// names the failure, so the user always has something to review.
func (d *Drafter) DraftReply(ctx context.Context, req DraftRequest) *drafts.Draft {
	if req.Instructions == "" {
		req.Instructions = "Write a professional reply"
	}
	if req.Tone == "" {
		req.Tone = "professional"
	}

	draft := &drafts.Draft{
		MessageID:      req.Message.ID,
		ThreadID:       req.Message.ThreadID,
		Account:        req.Message.Account,
		To:             req.Message.Sender.Email,
		Subject:        replySubject(req.Message.Subject),
		Status:         drafts.StatusPending,
		Instructions:   req.Instructions,
		SafetySeverity: drafts.SeverityNone,
	}

	basePrompt := d.draftPrompt(req)

	body, err := d.model.Complete(ctx, ModelRequest{
		Tier:   TierDeep,
		System: draftSystemPrompt,
		Prompt: basePrompt,
	})
	if err != nil {
		d.logger.Error("draft generation failed", logging.Err(err))
		draft.Body = fmt.Sprintf("[Error generating draft: %v]", err)
		return draft
	}
	body = strings.TrimSpace(body)

	for round := 0; round < d.maxRounds; round++ {
		eval, err := d.evaluate(ctx, req, body)
		if err != nil {
			// Evaluation is advisory; keep the current draft.
			d.logger.Warn("draft evaluation failed, keeping current draft",
				slog.Int("round", round+1), logging.Err(err))
			break
		}
		d.logger.Info("draft evaluated",
			slog.Int("round", round+1),
			slog.Int("score", eval.OverallScore),
			slog.Bool("pass", eval.Pass),
		)
		if eval.OverallScore >= acceptScore || eval.Pass {
			break
		}

		feedback := eval.Feedback
		if feedback == "" {
			feedback = "Improve clarity and tone."
		}
		rewritePrompt := fmt.Sprintf(`%s

PREVIOUS DRAFT (scored %d/10):
%s

EVALUATOR FEEDBACK:
%s

Write an improved version that addresses the feedback. Reply body only.`,
			basePrompt, eval.OverallScore, body, feedback)

		rewritten, err := d.model.Complete(ctx, ModelRequest{
			Tier:   TierDeep,
			System: draftSystemPrompt,
			Prompt: rewritePrompt,
		})
		if err != nil {
			d.logger.Warn("draft rewrite failed, keeping current draft",
				slog.Int("round", round+1), logging.Err(err))
			break
		}
		body = strings.TrimSpace(rewritten)
	}

	draft.Body = body

	verdict := d.safetyCheck(ctx, req.Message, body)
	if !verdict.Safe {
		draft.SafetyFlags = verdict.Flags
		draft.SafetySeverity = drafts.Severity(verdict.Severity)
		if draft.SafetySeverity == "" {
			draft.SafetySeverity = drafts.SeverityLow
		}
		d.logger.Warn("draft has safety flags",
			slog.Any("flags", draft.SafetyFlags),
			slog.String("severity", string(draft.SafetySeverity)),
		)
	}

	return draft
}

func (d *Drafter) draftPrompt(req DraftRequest) string {
	body := req.Message.BodyText
	if body == "" {
		body = req.Message.Snippet
	}
	signoff := req.UserName
	if signoff == "" {
		signoff = "the sender"
	}
	return fmt.Sprintf(`Draft a reply to this email.

ORIGINAL EMAIL:
From: %s <%s>
Subject: %s
Body:
%s

INSTRUCTIONS FROM USER: %s
TONE: %s
SIGN OFF AS: %s

Write the reply body only. No subject line. No metadata.`,
		req.Message.Sender.Name, req.Message.Sender.Email, req.Message.Subject,
		mail.Truncate(body, 2000), req.Instructions, req.Tone, signoff)
}

func (d *Drafter) evaluate(ctx context.Context, req DraftRequest, body string) (*evaluation, error) {
	prompt := fmt.Sprintf(`Evaluate this email draft reply.

ORIGINAL EMAIL (being replied to):
From: %s
Subject: %s
Body snippet: %s

REQUESTED TONE: %s
USER INSTRUCTIONS: %s

DRAFT TO EVALUATE:
%s

Return JSON evaluation.`,
		req.Message.Sender.Name, req.Message.Subject, mail.Truncate(req.Message.Snippet, 300),
		req.Tone, req.Instructions, body)

	raw, err := d.model.Complete(ctx, ModelRequest{
		Tier:   TierFast,
		System: evaluatorSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	var eval evaluation
	if err := decodeResponse(TierFast, raw, &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

// safetyCheck reviews the final body on the fast tier. It fails open: a
// failed or unparsable check reports safe with no flags, because the
// guardrail only annotates drafts, it never withholds them.
func (d *Drafter) safetyCheck(ctx context.Context, msg mail.Message, body string) safetyVerdict {
	prompt := fmt.Sprintf(`Check this draft email reply for safety issues.

REPLYING TO: %s <%s>
SUBJECT: %s

DRAFT:
%s

Return JSON safety assessment.`, msg.Sender.Name, msg.Sender.Email, msg.Subject, body)

	raw, err := d.model.Complete(ctx, ModelRequest{
		Tier:   TierFast,
		System: safetySystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		d.logger.Warn("safety check failed, treating draft as safe", logging.Err(err))
		return safetyVerdict{Safe: true, Severity: string(drafts.SeverityNone)}
	}

	var verdict safetyVerdict
	if err := decodeResponse(TierFast, raw, &verdict); err != nil {
		d.logger.Warn("safety check unparsable, treating draft as safe", logging.Err(err))
		return safetyVerdict{Safe: true, Severity: string(drafts.SeverityNone)}
	}
	return verdict
}

// replySubject prefixes "Re: " exactly once, case-insensitively.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
