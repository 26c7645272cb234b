package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/patrickmn/go-cache"
)

// Cached memoizes successful suggestions by content for the lifetime of the
// process, so identical documents in one run cost a single API call.
// Errors are never cached.
type Cached struct {
	inner NamingOracle
	memo  *cache.Cache
}

// NewCached wraps inner with an in-memory memo.
func NewCached(inner NamingOracle) *Cached {
	return &Cached{inner: inner, memo: cache.New(cache.NoExpiration, 0)}
}

// Suggest returns the memoized suggestion for (text, instructions) when
// present, with Cached set and zero usage.
func (c *Cached) Suggest(ctx context.Context, text, instructions string) (Suggestion, error) {
	key := memoKey(text, instructions)
	if v, ok := c.memo.Get(key); ok {
		s := v.(Suggestion)
		s.Cached = true
		s.Usage = Usage{}
		s.Elapsed = 0
		return s, nil
	}
	s, err := c.inner.Suggest(ctx, text, instructions)
	if err != nil {
		return s, err
	}
	c.memo.Set(key, s, cache.DefaultExpiration)
	return s, nil
}

// Len returns the number of memoized suggestions.
func (c *Cached) Len() int { return c.memo.ItemCount() }

func memoKey(text, instructions string) string {
	h := sha256.New()
	_, _ = io.WriteString(h, instructions)
	_, _ = h.Write([]byte{0})
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}
