package oracle

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI is a NamingOracle backed by the Chat Completions API. With a base
// URL it talks to any OpenAI-compatible host (DeepSeek, Groq, Ollama, ...).
type OpenAI struct {
	client          openai.Client
	provider        string
	model           string
	maxOutputTokens int64
	timeout         time.Duration
}

// OpenAIOptions configures NewOpenAI.
type OpenAIOptions struct {
	Provider        string // Name used in errors; defaults to "openai".
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
	// Extra options appended after the key and base URL (tests use these).
	RequestOptions []option.RequestOption
}

// NewOpenAI creates an OpenAI-compatible backend.
func NewOpenAI(o OpenAIOptions) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(o.APIKey)}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	opts = append(opts, o.RequestOptions...)
	provider := o.Provider
	if provider == "" {
		provider = "openai"
	}
	return &OpenAI{
		client:          openai.NewClient(opts...),
		provider:        provider,
		model:           o.Model,
		maxOutputTokens: int64(o.MaxOutputTokens),
		timeout:         o.Timeout,
	}
}

// Suggest sends instructions as the system message and text as the user message.
func (p *OpenAI) Suggest(ctx context.Context, text, instructions string) (Suggestion, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(instructions),
		openai.UserMessage(text),
	}
	start := time.Now()
	content, usage, err := p.complete(ctx, msgs)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{
		Name:    content,
		Model:   p.model,
		Usage:   usage,
		Elapsed: time.Since(start),
	}, nil
}

// Transcribe sends one PNG page as a data URI and returns the model's transcription.
func (p *OpenAI) Transcribe(ctx context.Context, png []byte, prompt string) (string, Usage, error) {
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
	}
	msgs := []openai.ChatCompletionMessageParamUnion{{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{OfArrayOfContentParts: parts},
		},
	}}
	return p.complete(ctx, msgs)
}

// transcribeMaxTokens bounds a page transcription.
const transcribeMaxTokens = 3000

func (p *OpenAI) complete(ctx context.Context, msgs []openai.ChatCompletionMessageParamUnion) (string, Usage, error) {
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: msgs,
	}
	limit := p.maxOutputTokens
	if isTranscription(msgs) {
		limit = transcribeMaxTokens
	}
	if limit > 0 {
		params.MaxCompletionTokens = openai.Int(limit)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", Usage{}, p.unavailable(err)
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	if len(resp.Choices) == 0 {
		return "", usage, &Error{Provider: p.provider, Kind: ErrMalformed, Err: errors.New("no choices")}
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" && resp.Choices[0].Message.Refusal != "" {
		return "", usage, &Error{Provider: p.provider, Kind: ErrMalformed, Err: fmt.Errorf("refused: %s", resp.Choices[0].Message.Refusal)}
	}
	return content, usage, nil
}

func (p *OpenAI) unavailable(err error) error {
	e := &Error{Provider: p.provider, Kind: ErrUnavailable, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		e.Status = apiErr.StatusCode
	}
	return e
}

func isTranscription(msgs []openai.ChatCompletionMessageParamUnion) bool {
	return len(msgs) == 1 && msgs[0].OfUser != nil && msgs[0].OfUser.Content.OfArrayOfContentParts != nil
}
