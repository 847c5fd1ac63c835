package summarize

import "fmt"

// PromptTooLargeError means a constructed prompt already used up the whole
// per-pass token ceiling, leaving no budget for the completion. The provider
// is never invoked in that case.
type PromptTooLargeError struct {
	PromptTokens   int
	MaxTotalTokens int
}

func (e *PromptTooLargeError) Error() string {
	return fmt.Sprintf("prompt is %d tokens, leaving no completion budget under the %d token ceiling",
		e.PromptTokens, e.MaxTotalTokens)
}
