// Package summarize turns an ordered list of comment bodies into
// token-budgeted chunks and drives the multi-pass rolling-prefix
// summarization loop over them.
package summarize

import (
	"regexp"

	"github.com/seandearnaley/reddit-rollup/reddit"
)

var newlineRuns = regexp.MustCompile(`\n+`)

// ChunkBodies groups comment bodies, in their given order, into chunks whose
// token count stays within maxChunkTokens. Empty bodies are skipped; runs of
// newlines inside a body collapse to one, and each body gets a trailing
// newline. A body too large for the budget on its own still becomes exactly
// one chunk: bodies are never split. No body is dropped or duplicated.
func ChunkBodies(records []reddit.CommentRecord, counter TokenCounter, maxChunkTokens int) []string {
	var chunks []string
	acc := ""
	for _, rec := range records {
		if rec.Body == "" {
			continue
		}
		body := newlineRuns.ReplaceAllString(rec.Body, "\n") + "\n"

		if acc != "" && counter.Count(acc+body) > maxChunkTokens {
			chunks = append(chunks, acc)
			acc = ""
		}
		acc += body
		// Only an oversized lone body can still be over budget here.
		if counter.Count(acc) > maxChunkTokens {
			chunks = append(chunks, acc)
			acc = ""
		}
	}
	if acc != "" {
		chunks = append(chunks, acc)
	}
	return chunks
}
