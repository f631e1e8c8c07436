package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/inboxpilot/internal/logging"
	"github.com/teemow/inboxpilot/internal/mail"
)

// Analyzer is the two-tier classification router.
type Analyzer struct {
	model  ModelClient
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyzer builds a router over the given model client.
func NewAnalyzer(model ModelClient, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{model: model, logger: logger, now: time.Now}
}

// triageResult is one quick-triage verdict.
type triageResult struct {
	ID           string `json:"id"`
	IsSpam       bool   `json:"is_spam"`
	IsNewsletter bool   `json:"is_newsletter"`
	Priority     string `json:"quick_priority"`
}

// deepResult is one deep-analysis verdict.
type deepResult struct {
	ID               string `json:"id"`
	Priority         string `json:"priority"`
	Category         string `json:"category"`
	Summary          string `json:"summary"`
	SuggestedAction  string `json:"suggested_action"`
	VIP              bool   `json:"is_vip"`
	Sentiment        string `json:"sentiment"`
	ResponseDeadline string `json:"response_deadline"`
}

// Analyze annotates a batch of messages. Every input message appears
// exactly once in the output; a batch that cannot be classified at all
// comes back with empty Analysis values instead of an error.
func (a *Analyzer) Analyze(ctx context.Context, batch []mail.Message, vips []string) []mail.Annotated {
	if len(batch) == 0 {
		return nil
	}

	verdicts, err := a.triage(ctx, batch)
	if err != nil {
		a.logger.Warn("quick triage failed, deep-analyzing everything", logging.Err(err))
		verdicts = nil
	}

	// Split off spam and newsletters; the rest goes to the deep tier.
	out := make([]mail.Annotated, len(batch))
	var needDeep []mail.Message
	for i, msg := range batch {
		out[i] = mail.Annotated{Message: msg}
		v, ok := verdicts[msg.ID]
		switch {
		case ok && v.IsSpam:
			out[i].Analysis = mail.Analysis{
				Priority: mail.PriorityLow,
				Category: mail.CategorySpam,
				Summary:  "Detected as spam by quick classifier",
			}
		case ok && v.IsNewsletter:
			out[i].Analysis = mail.Analysis{
				Priority: mail.PriorityLow,
				Category: mail.CategoryNewsletter,
				Summary:  "Newsletter: " + msg.Subject,
			}
		default:
			needDeep = append(needDeep, msg)
		}
	}

	if len(needDeep) == 0 {
		return out
	}

	results, err := a.deepAnalyze(ctx, needDeep, vips)
	if err != nil {
		a.logger.Warn("deep analysis failed, retrying over the full batch", logging.Err(err))
		results, err = a.deepAnalyze(ctx, batch, vips)
		if err != nil {
			a.logger.Error("deep analysis fallback failed, returning without opinion", logging.Err(err))
			return out
		}
	}

	vipSet := make(map[string]struct{}, len(vips))
	for _, v := range vips {
		vipSet[strings.ToLower(v)] = struct{}{}
	}

	for i := range out {
		if out[i].Analysis.Classified() {
			continue
		}
		analysis := mail.Analysis{
			Priority: mail.PriorityNormal,
			Category: mail.CategoryFYI,
		}
		if r, ok := results[out[i].Message.ID]; ok {
			analysis = toAnalysis(r)
		}
		if _, vip := vipSet[strings.ToLower(out[i].Message.Sender.Email)]; vip {
			analysis.VIP = true
		}
		out[i].Analysis = analysis
	}
	return out
}

// triage runs the quick spam/newsletter pass on the fast tier.
func (a *Analyzer) triage(ctx context.Context, batch []mail.Message) (map[string]triageResult, error) {
	type item struct {
		ID      string `json:"id"`
		From    string `json:"from"`
		Subject string `json:"subject"`
		Snippet string `json:"snippet"`
	}

	items := make([]item, 0, len(batch))
	for _, m := range batch {
		items = append(items, item{
			ID:      m.ID,
			From:    m.Sender.Email,
			Subject: m.Subject,
			Snippet: mail.Truncate(m.Snippet, 100),
		})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode triage batch: %w", err)
	}

	prompt := fmt.Sprintf(`Quickly classify these %d emails. Return JSON array:
[{"id": "...", "is_spam": bool, "is_newsletter": bool, "quick_priority": "high"|"normal"|"low"}]

Emails:
%s

JSON only.`, len(items), payload)

	raw, err := a.model.Complete(ctx, ModelRequest{
		Tier:   TierFast,
		System: triageSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	var results []triageResult
	if err := decodeResponse(TierFast, raw, &results); err != nil {
		return nil, err
	}

	verdicts := make(map[string]triageResult, len(results))
	for _, r := range results {
		verdicts[r.ID] = r
	}
	return verdicts, nil
}

// deepAnalyze runs the full classification pass on the deep tier.
func (a *Analyzer) deepAnalyze(ctx context.Context, batch []mail.Message, vips []string) (map[string]deepResult, error) {
	type item struct {
		ID             string `json:"id"`
		FromName       string `json:"from_name"`
		FromEmail      string `json:"from_email"`
		Subject        string `json:"subject"`
		Snippet        string `json:"snippet"`
		BodyPreview    string `json:"body_preview"`
		Date           string `json:"date"`
		HasAttachments bool   `json:"has_attachments"`
		IsKnownVIP     bool   `json:"is_known_vip"`
	}

	vipSet := make(map[string]struct{}, len(vips))
	for _, v := range vips {
		vipSet[strings.ToLower(v)] = struct{}{}
	}

	items := make([]item, 0, len(batch))
	for _, m := range batch {
		preview := m.BodyText
		if preview == "" {
			preview = m.Snippet
		}
		_, known := vipSet[strings.ToLower(m.Sender.Email)]
		items = append(items, item{
			ID:             m.ID,
			FromName:       m.Sender.Name,
			FromEmail:      m.Sender.Email,
			Subject:        m.Subject,
			Snippet:        mail.Truncate(m.Snippet, 300),
			BodyPreview:    mail.Truncate(preview, 800),
			Date:           m.Date.Format(time.RFC3339),
			HasAttachments: m.HasAttachments,
			IsKnownVIP:     known,
		})
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode analysis batch: %w", err)
	}

	vipList := "none specified"
	if len(vips) > 0 {
		encoded, err := json.Marshal(vips)
		if err == nil {
			vipList = string(encoded)
		}
	}

	prompt := fmt.Sprintf(`Analyze these %d emails. Return a JSON array where each object has:
- id (string, must match the email id)
- priority ("urgent" | "high" | "normal" | "low")
- category ("action_required" | "waiting_on" | "fyi" | "newsletter" | "promotional" | "personal" | "spam")
- summary (1-2 sentences)
- suggested_action (specific actionable instruction)
- is_vip (boolean)
- sentiment ("positive" | "neutral" | "negative" | "urgent")
- response_deadline (null or ISO date string)

VIP contacts (always mark as VIP): %s
Today's date: %s

Emails to analyze:
%s

Return ONLY the JSON array, nothing else.`, len(items), vipList, a.now().Format("2006-01-02"), payload)

	raw, err := a.model.Complete(ctx, ModelRequest{
		Tier:   TierDeep,
		System: analysisSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	var results []deepResult
	if err := decodeResponse(TierDeep, raw, &results); err != nil {
		return nil, err
	}

	byID := make(map[string]deepResult, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}
	return byID, nil
}

// toAnalysis converts a deep verdict, substituting defaults for fields
// the model left out.
func toAnalysis(r deepResult) mail.Analysis {
	analysis := mail.Analysis{
		Priority:        mail.Priority(r.Priority),
		Category:        mail.Category(r.Category),
		Summary:         r.Summary,
		SuggestedAction: r.SuggestedAction,
		VIP:             r.VIP,
		Sentiment:       r.Sentiment,
	}
	if analysis.Priority == "" {
		analysis.Priority = mail.PriorityNormal
	}
	if analysis.Category == "" {
		analysis.Category = mail.CategoryFYI
	}
	if r.ResponseDeadline != "" && r.ResponseDeadline != "null" {
		if t, err := time.Parse(time.RFC3339, r.ResponseDeadline); err == nil {
			analysis.ResponseDeadline = t
		} else if t, err := time.Parse("2006-01-02", r.ResponseDeadline); err == nil {
			analysis.ResponseDeadline = t
		}
	}
	return analysis
}
