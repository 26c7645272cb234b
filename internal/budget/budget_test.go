package budget

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEstimator wraps an Estimator and records how often it was called.
type countingEstimator struct {
	inner Estimator
	calls int
}

func (c *countingEstimator) Estimate(text string) int {
	c.calls++
	return c.inner.Estimate(text)
}

// constEstimator always reports n tokens, except 0 for empty text.
type constEstimator int

func (c constEstimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return int(c)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"positive", 15000, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.n)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidBudget))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Budget(tt.n), b)
		})
	}
}

func TestShrink_WithinBudgetUnchanged(t *testing.T) {
	est := &countingEstimator{inner: ByteEstimator{BytesPerToken: 4}}
	text := strings.Repeat("a", 400) // 100 tokens

	got := Shrink(text, 100, est)

	assert.Equal(t, text, got)
	assert.Equal(t, 1, est.calls, "fitting text needs a single estimate")
}

func TestShrink_OverBudgetFitsAndIsPrefix(t *testing.T) {
	est := ByteEstimator{BytesPerToken: 4}
	text := strings.Repeat("kvittering ", 20000)

	got := Shrink(text, 15000, est)

	assert.LessOrEqual(t, est.Estimate(got), 15000)
	assert.True(t, strings.HasPrefix(text, got))
	assert.NotEmpty(t, got)
}

func TestShrink_KeepsNinetyPercentPerStep(t *testing.T) {
	// 1000 bytes at 1 byte/token against a budget of 950: one step to 900.
	est := ByteEstimator{BytesPerToken: 1}
	text := strings.Repeat("x", 1000)

	got := Shrink(text, 950, est)

	assert.Len(t, got, 900)
}

func TestShrink_TerminatesWhenNothingFits(t *testing.T) {
	// Every non-empty text reports more tokens than the budget.
	got := Shrink("some receipt text", 1, constEstimator(10))
	assert.Equal(t, "", got)
}

func TestShrink_EmptyIsFixedPoint(t *testing.T) {
	est := &countingEstimator{inner: constEstimator(10)}
	assert.Equal(t, "", Shrink("", 1, est))
	assert.Equal(t, 0, est.calls)
}

func TestShrink_ShortTextAlwaysShrinks(t *testing.T) {
	// 90% of len 1..9 rounds down to a value that must still drop a byte.
	for n := 1; n < 10; n++ {
		assert.Less(t, cutPoint(strings.Repeat("y", n)), n)
	}
}

func TestShrink_CutsOnRuneBoundary(t *testing.T) {
	est := ByteEstimator{BytesPerToken: 1}
	text := strings.Repeat("æøå", 500) // 2-byte runes

	for _, b := range []Budget{1, 7, 99, 500, 2999} {
		got := Shrink(text, b, est)
		assert.True(t, utf8.ValidString(got), "budget %d produced invalid UTF-8", b)
		assert.LessOrEqual(t, est.Estimate(got), int(b))
	}
}

func TestFits(t *testing.T) {
	est := ByteEstimator{BytesPerToken: 4}
	assert.True(t, Fits("abcd", 1, est))
	assert.False(t, Fits("abcde", 1, est))
}

func TestByteEstimator(t *testing.T) {
	tests := []struct {
		name string
		bpt  int
		text string
		want int
	}{
		{"empty", 4, "", 0},
		{"exact multiple", 4, "abcdefgh", 2},
		{"rounds up", 4, "abcde", 2},
		{"zero ratio uses default", 0, "abcde", 2},
		{"one byte per token", 1, "abc", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByteEstimator{BytesPerToken: tt.bpt}.Estimate(tt.text))
		})
	}
}

func TestNewEstimator(t *testing.T) {
	est, err := NewEstimator(EncodingBytes)
	require.NoError(t, err)
	assert.IsType(t, ByteEstimator{}, est)

	_, err = NewEstimator("p50k_whatever")
	assert.Error(t, err)

	// cl100k_base may be unavailable offline; either way an estimator comes back.
	est, _ = NewEstimator(EncodingCL100K)
	require.NotNil(t, est)
	assert.Positive(t, est.Estimate("Kvittering fra Rema 1000"))
}
