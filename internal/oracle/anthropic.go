package oracle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// defaultAnthropicMaxTokens is used when no output limit is configured;
// the Messages API requires one.
const defaultAnthropicMaxTokens = 300

// Anthropic is a NamingOracle backed by the Anthropic Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// AnthropicOptions configures NewAnthropic.
type AnthropicOptions struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
	RequestOptions  []anthropicoption.RequestOption
}

// NewAnthropic creates an Anthropic backend.
func NewAnthropic(o AnthropicOptions) *Anthropic {
	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(o.APIKey)}
	if o.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(o.BaseURL))
	}
	opts = append(opts, o.RequestOptions...)
	maxTokens := int64(o.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     o.Model,
		maxTokens: maxTokens,
		timeout:   o.Timeout,
	}
}

// Suggest sends instructions as the system prompt and text as the user turn.
func (p *Anthropic) Suggest(ctx context.Context, text, instructions string) (Suggestion, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(text))},
	}
	if instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: instructions}}
	}

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		e := &Error{Provider: "anthropic", Kind: ErrUnavailable, Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			e.Status = apiErr.StatusCode
		}
		return Suggestion{}, e
	}

	if len(msg.Content) == 0 {
		return Suggestion{}, &Error{Provider: "anthropic", Kind: ErrMalformed, Err: errors.New("no content blocks")}
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return Suggestion{
		Name:    strings.TrimSpace(b.String()),
		Model:   p.model,
		Usage:   Usage{InputTokens: msg.Usage.InputTokens, OutputTokens: msg.Usage.OutputTokens},
		Elapsed: time.Since(start),
	}, nil
}
