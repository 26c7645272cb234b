// Package oracle asks a language model to suggest a file name for a
// document's text. Backends: OpenAI Chat Completions (and compatible
// hosts) and the Anthropic Messages API.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors wrapped by *Error.
var (
	// ErrUnavailable covers transport failures and non-2xx responses.
	ErrUnavailable = errors.New("naming oracle unavailable")
	// ErrMalformed means the response carried no usable text.
	ErrMalformed = errors.New("malformed oracle response")
)

// Error is returned by every backend. Status is the HTTP status when the
// provider answered with one.
type Error struct {
	Provider string
	Status   int
	Kind     error // ErrUnavailable or ErrMalformed
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// Usage is the token accounting of one oracle call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Cost estimates the call price from per-1K token prices.
func (u Usage) Cost(inputPer1K, outputPer1K float64) float64 {
	return float64(u.InputTokens)/1000*inputPer1K + float64(u.OutputTokens)/1000*outputPer1K
}

// Add returns the sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{InputTokens: u.InputTokens + o.InputTokens, OutputTokens: u.OutputTokens + o.OutputTokens}
}

// Suggestion is the raw, untrusted name proposed by the oracle.
type Suggestion struct {
	Name    string
	Model   string
	Usage   Usage
	Elapsed time.Duration
	Cached  bool // Served from the in-run memo; no API call was made.
}

// NamingOracle maps document text and instructions to a suggested name.
type NamingOracle interface {
	Suggest(ctx context.Context, text, instructions string) (Suggestion, error)
}

// Transcriber extracts text from a page image (vision OCR).
type Transcriber interface {
	Transcribe(ctx context.Context, png []byte, prompt string) (string, Usage, error)
}

// withTimeout applies a per-call deadline when d > 0.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
