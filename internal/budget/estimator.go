package budget

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator approximates how many tokens the oracle will count for a text.
// Implementations must be monotone enough that a strictly shorter prefix
// never reports more tokens than the text it was cut from.
type Estimator interface {
	Estimate(text string) int
}

// Estimator names accepted by [NewEstimator].
const (
	EncodingCL100K = "cl100k_base"
	EncodingBytes  = "bytes"
)

// DefaultBytesPerToken is the byte-per-token ratio used by ByteEstimator
// when none is set. Four bytes per token is the usual rough figure for
// English and Scandinavian prose.
const DefaultBytesPerToken = 4

// ByteEstimator estimates ceil(len(text)/BytesPerToken).
type ByteEstimator struct {
	BytesPerToken int
}

// Estimate implements Estimator.
func (e ByteEstimator) Estimate(text string) int {
	bpt := e.BytesPerToken
	if bpt <= 0 {
		bpt = DefaultBytesPerToken
	}
	return (len(text) + bpt - 1) / bpt
}

// TiktokenEstimator counts tokens with a BPE encoding (cl100k_base by default).
type TiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the named encoding. Loading may need network
// access to fetch the BPE ranks the first time; callers fall back to
// ByteEstimator when it fails.
func NewTiktokenEstimator(encoding string) (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encoding, err)
	}
	return &TiktokenEstimator{enc: enc}, nil
}

// Estimate implements Estimator.
func (e *TiktokenEstimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return len(e.enc.Encode(text, nil, nil))
}

// NewEstimator returns the estimator named by name. An unknown name is an
// error. For cl100k_base, a load failure returns a ByteEstimator together
// with the load error so the caller can log a warning and continue.
func NewEstimator(name string) (Estimator, error) {
	switch name {
	case EncodingBytes:
		return ByteEstimator{BytesPerToken: DefaultBytesPerToken}, nil
	case EncodingCL100K, "":
		tk, err := NewTiktokenEstimator(EncodingCL100K)
		if err != nil {
			return ByteEstimator{BytesPerToken: DefaultBytesPerToken}, err
		}
		return tk, nil
	default:
		return nil, fmt.Errorf("unknown token estimator %q (use %s | %s)", name, EncodingCL100K, EncodingBytes)
	}
}
