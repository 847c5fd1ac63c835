package summarize

import (
	"fmt"
	"math"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding approximates the tokenizers of current chat models well
// enough for budgeting. The exact encoding is configuration, not contract.
const DefaultEncoding = "cl100k_base"

// TokenCounter counts tokens in a piece of text. Implementations must be
// deterministic, and concatenating non-empty text must never decrease the
// count.
type TokenCounter interface {
	Count(text string) int
}

// Counter is a TokenCounter backed by a tiktoken BPE encoding.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the named tiktoken encoding (DefaultEncoding when empty).
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("NewCounter: get encoding %q: %w", encoding, err)
	}
	return &Counter{enc: enc}, nil
}

func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// HeuristicCounter is an offline fallback that over-estimates slightly so
// budget checks trip early rather than late. Most BPE tokenizers land around
// 3-4 bytes per token for English-ish text; bytes/3 bounded below by runes/2
// covers short mostly-ASCII tokens too.
type HeuristicCounter struct{}

func (HeuristicCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	byBytes := len(text) / 3
	byRunes := utf8.RuneCountInString(text) / 2
	if byRunes > byBytes {
		return byRunes
	}
	return byBytes
}

// EstimateWords converts a token count to an approximate real word count,
// using the ~0.56 words-per-token average for GPT-style vocabularies.
func EstimateWords(tokens int) int {
	return int(math.Round(float64(tokens) * 0.56))
}
