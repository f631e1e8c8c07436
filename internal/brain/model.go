package brain

import (
	"context"
	"net/http"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Tier selects the model capability class for a request.
type Tier string

// Model tiers.
const (
	TierFast Tier = "fast"
	TierDeep Tier = "deep"
)

// ModelRequest is one prompt for a completion.
type ModelRequest struct {
	Tier      Tier
	System    string
	Prompt    string
	MaxTokens int
}

// ModelClient issues completions. Implementations must return a
// *TransportError for failed calls so callers can route fail-open logic.
type ModelClient interface {
	Complete(ctx context.Context, req ModelRequest) (string, error)
}

// Observer is notified after every model call, for metrics.
type Observer func(tier Tier, status string, elapsed time.Duration)

// AnthropicConfig configures the two-tier Anthropic client.
type AnthropicConfig struct {
	APIKey        string
	BaseURL       string
	FastModel     string
	DeepModel     string
	FastMaxTokens int
	DeepMaxTokens int
	HTTPClient    *http.Client
	Observer      Observer
}

// AnthropicClient is the production ModelClient backed by the Anthropic
// API.
type AnthropicClient struct {
	client    anthropicsdk.Client
	fastModel anthropicsdk.Model
	deepModel anthropicsdk.Model
	fastMax   int
	deepMax   int
	observer  Observer
}

// NewAnthropicClient builds the client. Sensible token budgets apply
// when the config leaves them zero.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	fastMax := cfg.FastMaxTokens
	if fastMax <= 0 {
		fastMax = 512
	}
	deepMax := cfg.DeepMaxTokens
	if deepMax <= 0 {
		deepMax = 2048
	}

	return &AnthropicClient{
		client:    anthropicsdk.NewClient(opts...),
		fastModel: anthropicsdk.Model(cfg.FastModel),
		deepModel: anthropicsdk.Model(cfg.DeepModel),
		fastMax:   fastMax,
		deepMax:   deepMax,
		observer:  cfg.Observer,
	}
}

// Complete issues a non-streaming completion against the requested tier.
func (c *AnthropicClient) Complete(ctx context.Context, req ModelRequest) (string, error) {
	model := c.deepModel
	maxTokens := c.deepMax
	if req.Tier == TierFast {
		model = c.fastModel
		maxTokens = c.fastMax
	}
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := anthropicsdk.MessageNewParams{
		Model:     model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(req.Prompt)),
		},
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: system}}
	}

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		c.observe(req.Tier, "error", start)
		return "", &TransportError{Tier: req.Tier, Err: err}
	}
	c.observe(req.Tier, "ok", start)

	var parts []string
	for _, block := range msg.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, ""), nil
}

func (c *AnthropicClient) observe(tier Tier, status string, start time.Time) {
	if c.observer != nil {
		c.observer(tier, status, time.Since(start))
	}
}
