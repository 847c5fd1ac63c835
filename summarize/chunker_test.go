package summarize

import (
	"strings"
	"testing"

	"github.com/seandearnaley/reddit-rollup/reddit"
)

// wordCounter counts whitespace-separated words, standing in for a real
// tokenizer in tests.
type wordCounter struct{}

func (wordCounter) Count(s string) int { return len(strings.Fields(s)) }

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("w ", n))
}

func TestChunkBodies_OversizedBodyGetsOwnChunk(t *testing.T) {
	t.Parallel()

	records := []reddit.CommentRecord{
		{Path: "0", Body: words(10)},
		{Path: "1", Body: words(2600)},
		{Path: "2", Body: words(5)},
	}

	chunks := ChunkBodies(records, wordCounter{}, 2500)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks)=%d, want 3", len(chunks))
	}
	counts := []int{10, 2600, 5}
	for i, c := range chunks {
		if got := (wordCounter{}).Count(c); got != counts[i] {
			t.Fatalf("chunk %d has %d words, want %d", i, got, counts[i])
		}
	}
}

func TestChunkBodies_NoDropNoDuplicate(t *testing.T) {
	t.Parallel()

	records := []reddit.CommentRecord{
		{Path: "0", Body: "alpha beta\n\n\ngamma"},
		{Path: "1", Body: ""},
		{Path: "2", Body: "delta epsilon zeta"},
		{Path: "3", Body: "eta"},
	}

	chunks := ChunkBodies(records, wordCounter{}, 4)
	want := "alpha beta\ngamma\n" + "delta epsilon zeta\n" + "eta\n"
	if got := strings.Join(chunks, ""); got != want {
		t.Fatalf("concat=%q, want %q", got, want)
	}
}

func TestChunkBodies_ClosesBeforeExceedingBudget(t *testing.T) {
	t.Parallel()

	records := []reddit.CommentRecord{
		{Path: "0", Body: words(3)},
		{Path: "1", Body: words(3)},
	}

	chunks := ChunkBodies(records, wordCounter{}, 5)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks)=%d, want 2", len(chunks))
	}
	for i, c := range chunks {
		if got := (wordCounter{}).Count(c); got != 3 {
			t.Fatalf("chunk %d has %d words, want 3", i, got)
		}
	}
}

func TestChunkBodies_EmptyBodiesYieldNothing(t *testing.T) {
	t.Parallel()

	records := []reddit.CommentRecord{
		{Path: "0", Body: ""},
		{Path: "1", Body: ""},
	}

	if chunks := ChunkBodies(records, wordCounter{}, 10); len(chunks) != 0 {
		t.Fatalf("chunks=%v, want none", chunks)
	}
}

func TestChunkBodies_CollapsesNewlineRuns(t *testing.T) {
	t.Parallel()

	records := []reddit.CommentRecord{
		{Path: "0", Body: "a\n\n\n\nb"},
	}

	chunks := ChunkBodies(records, wordCounter{}, 10)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks)=%d, want 1", len(chunks))
	}
	if chunks[0] != "a\nb\n" {
		t.Fatalf("chunk=%q, want %q", chunks[0], "a\nb\n")
	}
}
