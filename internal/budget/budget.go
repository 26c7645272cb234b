// Package budget trims extracted document text so that its estimated token
// count fits the naming oracle's input budget.
package budget

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidBudget is returned by [New] for a non-positive token budget.
var ErrInvalidBudget = errors.New("token budget must be positive")

// DefaultBudget is the token budget used when none is configured.
const DefaultBudget Budget = 15000

// keepNumerator/keepDenominator: each shrink step keeps 90% of the current length.
const (
	keepNumerator   = 9
	keepDenominator = 10
)

// Budget is a maximum token count for oracle input. Always > 0 when built with [New].
type Budget int

// New validates n and returns it as a Budget.
func New(n int) (Budget, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBudget, n)
	}
	return Budget(n), nil
}

// Shrink returns text unchanged when est reports it within b. Otherwise it
// repeatedly keeps the leading 90% of the current text (at least one byte is
// dropped per step, cuts land on rune boundaries) until the estimate fits or
// the text is empty. The result is always a prefix of text.
func Shrink(text string, b Budget, est Estimator) string {
	for text != "" && est.Estimate(text) > int(b) {
		text = text[:cutPoint(text)]
	}
	return text
}

// Fits reports whether text is within b according to est.
func Fits(text string, b Budget, est Estimator) bool {
	return est.Estimate(text) <= int(b)
}

// cutPoint returns the byte length of the next, strictly shorter prefix.
func cutPoint(text string) int {
	n := len(text) * keepNumerator / keepDenominator
	if n >= len(text) {
		n = len(text) - 1
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return n
}
