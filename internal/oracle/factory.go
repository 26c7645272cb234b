package oracle

import (
	"errors"
	"fmt"
	"time"

	"github.com/backmassage/docnamer/internal/config"
)

// Configuration errors returned by New and NewTranscriber.
var (
	ErrMissingAPIKey = errors.New("no API key configured")
	ErrMissingModel  = errors.New("no model configured")
	ErrNoVision      = errors.New("provider has no vision support")
)

// New builds the NamingOracle described by cfg. "anthropic" uses the native
// Messages API; every other provider is treated as OpenAI-compatible. A key
// is required unless a base URL points at a self-hosted endpoint. When
// cfg.Cache is set the backend is wrapped in a Cached memo.
func New(cfg *config.OracleConfig) (NamingOracle, error) {
	model := cfg.ResolvedModel()
	if model == "" {
		return nil, fmt.Errorf("%s: %w (set --model)", cfg.Provider, ErrMissingModel)
	}
	baseURL := cfg.ResolvedBaseURL()
	if cfg.APIKey == "" && baseURL == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	var o NamingOracle
	switch cfg.Provider {
	case "anthropic":
		o = NewAnthropic(AnthropicOptions{
			APIKey:          cfg.APIKey,
			BaseURL:         baseURL,
			Model:           model,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Timeout:         timeout,
		})
	default:
		o = newOpenAIFromConfig(cfg, model, baseURL, timeout)
	}
	if cfg.Cache {
		o = NewCached(o)
	}
	return o, nil
}

// NewTranscriber builds the vision backend used for OCR. Only
// OpenAI-compatible providers that accept image input qualify.
func NewTranscriber(cfg *config.OracleConfig) (Transcriber, error) {
	if cfg.Provider == "anthropic" {
		return nil, fmt.Errorf("%s: %w for page transcription (use an OpenAI-compatible provider)", cfg.Provider, ErrNoVision)
	}
	if d, ok := config.Provider(cfg.Provider); ok && !d.Vision && cfg.Model == "" {
		return nil, fmt.Errorf("%s: %w with its default model (set --model)", cfg.Provider, ErrNoVision)
	}
	model := cfg.ResolvedModel()
	if model == "" {
		return nil, fmt.Errorf("%s: %w (set --model)", cfg.Provider, ErrMissingModel)
	}
	baseURL := cfg.ResolvedBaseURL()
	if cfg.APIKey == "" && baseURL == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
	}
	return newOpenAIFromConfig(cfg, model, baseURL, time.Duration(cfg.TimeoutSecs)*time.Second), nil
}

func newOpenAIFromConfig(cfg *config.OracleConfig, model, baseURL string, timeout time.Duration) *OpenAI {
	return NewOpenAI(OpenAIOptions{
		Provider:        cfg.Provider,
		APIKey:          cfg.APIKey,
		BaseURL:         baseURL,
		Model:           model,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Timeout:         timeout,
	})
}
