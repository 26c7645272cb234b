package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// EmptyContent is returned in place of text when nothing could be
// extracted. The oracle receives it like any other text and usually answers
// with an unusable name, which sends the file down the fallback path.
const EmptyContent = "Content is empty or contains only whitespace."

// ErrUnreadable means the document could not be opened at all.
var ErrUnreadable = errors.New("document unreadable")

// TextExtractor yields the textual content of a document. It returns
// EmptyContent rather than an error when the document has no text, and an
// error only when the file cannot be read.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Logger is the minimal logging interface used to report recoverable
// extraction problems. *logging.Logger satisfies it.
type Logger interface {
	Warn(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Chain tries Native first and falls back to OCR when the native text is
// blank. OCR may be nil (no fallback).
type Chain struct {
	Native  TextExtractor
	OCR     TextExtractor
	Log     Logger
	Verbose bool
}

// Extract implements TextExtractor.
func (c *Chain) Extract(ctx context.Context, path string) (string, error) {
	if err := checkReadable(path); err != nil {
		return "", err
	}

	text, err := c.Native.Extract(ctx, path)
	if err != nil {
		if !recoverable(err) {
			return "", err
		}
		c.warn("Text layer: %v", err)
		text = ""
	}
	if !IsBlank(text) && text != EmptyContent {
		return text, nil
	}
	if c.OCR == nil {
		return EmptyContent, nil
	}

	c.debug("No text layer, running OCR")
	text, err = c.OCR.Extract(ctx, path)
	if err != nil {
		if !recoverable(err) {
			return "", err
		}
		c.warn("OCR: %v", err)
		return EmptyContent, nil
	}
	if IsBlank(text) {
		return EmptyContent, nil
	}
	return text, nil
}

func (c *Chain) warn(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Warn(format, args...)
	}
}

func (c *Chain) debug(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Debug(c.Verbose, format, args...)
	}
}

// IsBlank reports whether s has no non-whitespace characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// checkReadable opens path to prove it is readable.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return f.Close()
}

// recoverable reports whether an extractor error should degrade to "no
// text" instead of failing the document. Missing tools, unreadable files
// and cancellation are not recoverable.
func recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrUnreadable),
		errors.Is(err, ErrToolMissing),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
