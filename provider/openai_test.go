package provider

import (
	"errors"
	"reflect"
	"testing"
)

func TestDigestSchema_Strict(t *testing.T) {
	t.Parallel()

	if got := digestSchema[typeKey]; got != "object" {
		t.Fatalf("type=%v, want object", got)
	}
	if got := digestSchema[additionalPropertiesKey]; got != false {
		t.Fatalf("additionalProperties=%v, want false", got)
	}

	required, ok := digestSchema[requiredKey].([]string)
	if !ok {
		t.Fatalf("required=%T, want []string", digestSchema[requiredKey])
	}
	want := []string{"key_points", "summary", "tags"}
	if !reflect.DeepEqual(required, want) {
		t.Fatalf("required=%v, want %v", required, want)
	}

	properties, ok := digestSchema[propertiesKey].(map[string]interface{})
	if !ok {
		t.Fatalf("properties missing")
	}
	for _, name := range want {
		if _, ok := properties[name]; !ok {
			t.Fatalf("properties missing %q", name)
		}
	}
}

func TestDecodeModelJSON(t *testing.T) {
	t.Parallel()

	type out struct {
		Summary string `json:"summary"`
	}

	var v out
	if err := decodeModelJSON(`{"summary":"s"}`, &v); err != nil {
		t.Fatalf("plain JSON: %v", err)
	}
	if v.Summary != "s" {
		t.Fatalf("Summary=%q", v.Summary)
	}

	v = out{}
	if err := decodeModelJSON("Here you go:\n{\"summary\":\"wrapped\"}\nthanks", &v); err != nil {
		t.Fatalf("wrapped JSON: %v", err)
	}
	if v.Summary != "wrapped" {
		t.Fatalf("Summary=%q", v.Summary)
	}

	if err := decodeModelJSON("", &v); err == nil {
		t.Fatalf("expected error for empty output")
	}
	if err := decodeModelJSON("no json here", &v); err == nil {
		t.Fatalf("expected error for non-JSON output")
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	if !isRateLimitError(errors.New("429 Too Many Requests")) {
		t.Fatalf("429 not classified as rate limit")
	}
	if !isRateLimitError(errors.New("openai: rate limit exceeded")) {
		t.Fatalf("rate limit text not classified")
	}
	if isRateLimitError(errors.New("400 bad request")) {
		t.Fatalf("400 misclassified as rate limit")
	}

	if !isServerError(errors.New("500 Internal Server Error")) {
		t.Fatalf("500 not classified as server error")
	}
	if isServerError(errors.New("context canceled")) {
		t.Fatalf("cancellation misclassified as server error")
	}
	if isServerError(nil) || isRateLimitError(nil) {
		t.Fatalf("nil misclassified")
	}
}
