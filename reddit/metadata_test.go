package reddit

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"
)

func TestExtractMetadata_OK(t *testing.T) {
	t.Parallel()

	doc := gjson.Parse(`[{"data":{"children":[{"data":{"title":"Hello","selftext":""}}]}}]`)

	title, selftext, err := ExtractMetadata(doc)
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	if title != "Hello" {
		t.Fatalf("title=%q, want %q", title, "Hello")
	}
	if selftext != "" {
		t.Fatalf("selftext=%q, want empty", selftext)
	}
}

func TestExtractMetadata_MissingTitle(t *testing.T) {
	t.Parallel()

	doc := gjson.Parse(`[{"data":{"children":[{"data":{"selftext":"s"}}]}}]`)

	_, _, err := ExtractMetadata(doc)
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err=%v, want *MissingFieldError", err)
	}
	if missing.Field != "title" {
		t.Fatalf("Field=%q, want title", missing.Field)
	}
}

func TestExtractMetadata_MissingSelftext(t *testing.T) {
	t.Parallel()

	doc := gjson.Parse(`[{"data":{"children":[{"data":{"title":"Hello"}}]}}]`)

	_, _, err := ExtractMetadata(doc)
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("err=%v, want *MissingFieldError", err)
	}
	if missing.Field != "selftext" {
		t.Fatalf("Field=%q, want selftext", missing.Field)
	}
}

func TestExtractMetadata_WrongRootShape(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`{}`, `[]`, `[{"data":{}}]`, `"scalar"`} {
		doc := gjson.Parse(raw)
		_, _, err := ExtractMetadata(doc)
		var missing *MissingFieldError
		if !errors.As(err, &missing) {
			t.Fatalf("ExtractMetadata(%s) err=%v, want *MissingFieldError", raw, err)
		}
	}
}
