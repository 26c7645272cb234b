package naming

import (
	"strings"
	"time"
)

// DefaultMaxLen caps sanitized names when Sanitizer.MaxLen is unset.
const DefaultMaxLen = 100

// FallbackPrefix starts every name generated for an unusable suggestion.
const FallbackPrefix = "empty_file_"

// fallbackLayout formats the UTC timestamp of a fallback name (YYYYmmddHHMMSS).
const fallbackLayout = "20060102150405"

// SanitizedName is a non-empty identifier made only of ASCII letters,
// digits and underscores. It carries no extension.
type SanitizedName string

// String implements fmt.Stringer.
func (n SanitizedName) String() string { return string(n) }

// unusable lists oracle answers (trimmed, lowercased) that mean "no name found".
var unusable = map[string]bool{
	"unknown": true,
	"empty":   true,
}

// Sanitizer turns untrusted oracle suggestions into SanitizedNames.
// The zero value is ready to use with a 100 character cap.
type Sanitizer struct {
	MaxLen int
}

// Sanitize maps candidate to a SanitizedName. It is pure: the same
// candidate and now always give the same result.
//
// An empty candidate, or one reading "unknown" or "empty" in any case and
// with any surrounding whitespace, yields empty_file_<YYYYmmddHHMMSS> from
// now in UTC, and ok is false so callers can apply their skip policy.
// Otherwise each rune of candidate outside [A-Za-z0-9_] becomes one
// underscore, whitespace included, and the result is cut to MaxLen.
func (s Sanitizer) Sanitize(candidate string, now time.Time) (name SanitizedName, ok bool) {
	if candidate == "" || unusable[strings.ToLower(strings.TrimSpace(candidate))] {
		return s.Fallback(now), false
	}
	return SanitizedName(truncate(replaceUnsafe(candidate), s.maxLen())), true
}

// Fallback returns the timestamped name used for unusable suggestions.
func (s Sanitizer) Fallback(now time.Time) SanitizedName {
	return SanitizedName(truncate(FallbackPrefix+now.UTC().Format(fallbackLayout), s.maxLen()))
}

func (s Sanitizer) maxLen() int {
	if s.MaxLen <= 0 {
		return DefaultMaxLen
	}
	return s.MaxLen
}

func replaceUnsafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isSafe(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// truncate is byte-based; s is ASCII by the time it is called.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
