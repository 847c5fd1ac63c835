package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Completer invokes the external completion provider for one pass.
// maxTokens is the remaining completion budget for this prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Pass is one prompt/completion cycle of the loop.
type Pass struct {
	Index      int
	Prompt     string
	Completion string
}

// Result is everything one run produced: the inputs, every pass in order,
// and the human-readable transcript of the whole run.
type Result struct {
	Title      string
	Selftext   string
	Chunks     []string
	Passes     []Pass
	Transcript string
}

// Driver runs the rolling-prefix summarization loop. Passes are strictly
// sequential: the prefix fed into pass i+1 is derived from pass i's
// completion plus the constant title, so context never grows across passes.
type Driver struct {
	Completer   Completer
	Counter     TokenCounter
	Instruction string

	// MaxPasses caps the number of provider invocations.
	MaxPasses int

	// MaxTotalTokens is the per-prompt token ceiling; the completion budget
	// for a pass is MaxTotalTokens minus the prompt's token count.
	MaxTotalTokens int

	Logger *slog.Logger
}

// Summarize runs up to MaxPasses passes over chunks and returns the full
// run record. With no chunks it returns an empty transcript without touching
// the provider. The first chunk is deliberately summarized twice, once as a
// priming pass and again as pass 1: the records feeding chunk 0 are ordered
// with the top-voted comments first, and doubling them weights the most
// relevant discussion. Output consumers depend on this quirk.
//
// A provider error aborts the run immediately; passes already completed are
// not saved here.
func (d *Driver) Summarize(ctx context.Context, title, selftext string, chunks []string) (*Result, error) {
	if d.Completer == nil {
		return nil, errors.New("Summarize: Completer is nil")
	}
	if d.Counter == nil {
		return nil, errors.New("Summarize: Counter is nil")
	}
	if d.MaxPasses <= 0 {
		return nil, errors.New("Summarize: MaxPasses must be > 0")
	}
	if d.MaxTotalTokens <= 0 {
		return nil, errors.New("Summarize: MaxTotalTokens must be > 0")
	}

	res := &Result{Title: title, Selftext: selftext, Chunks: chunks}
	if len(chunks) == 0 {
		return res, nil
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	groups := make([]string, 0, len(chunks)+1)
	groups = append(groups, chunks[0])
	groups = append(groups, chunks...)
	if len(groups) > d.MaxPasses {
		groups = groups[:d.MaxPasses]
	}

	prefix := "Title: " + title + "\n" + selftext

	var out strings.Builder
	out.WriteString("START\n\n")
	out.WriteString(d.Instruction)
	out.WriteString("\n\n")

	for i, group := range groups {
		prompt := prefix + "\n\n" + d.Instruction + "\n\nCOMMENTS BEGIN\n" + group + "\nCOMMENTS END\n\nTitle:"

		promptTokens := d.Counter.Count(prompt)
		budget := d.MaxTotalTokens - promptTokens
		if budget <= 0 {
			return nil, &PromptTooLargeError{PromptTokens: promptTokens, MaxTotalTokens: d.MaxTotalTokens}
		}

		logger.Info("running summary pass",
			"pass", i,
			"prompt_tokens", promptTokens,
			"completion_budget", budget)

		completion, err := d.Completer.Complete(ctx, prompt, budget)
		if err != nil {
			return nil, fmt.Errorf("Summarize: pass %d: %w", i, err)
		}

		prefix = title + "\n\n" + completion + "\nEND"
		res.Passes = append(res.Passes, Pass{Index: i, Prompt: prompt, Completion: completion})

		fmt.Fprintf(&out, "\n\n============\nSUMMARY COUNT: %d\n============\n", i)
		fmt.Fprintf(&out, "PROMPT: %s\n\n%s\n======================================\n\n", prompt, completion)
	}

	res.Transcript = out.String()
	return res, nil
}
