// Package provider implements the completion provider on the OpenAI
// Responses API. Retry policy for rate limits and transient server errors
// lives here, at the collaborator boundary; the summarization core never
// retries.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/seandearnaley/reddit-rollup/summarize"
)

// OpenAI satisfies summarize.Completer. Model and temperature are fixed at
// construction; per-call the only variable is the completion token budget.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float64
}

func NewOpenAI(apiKey, model string, temperature float64) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{client: &client, model: model, temperature: temperature}
}

// Complete runs one plain-text completion for prompt, capped at maxTokens
// output tokens.
func (p *OpenAI) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.client == nil {
		return "", errors.New("Complete: client is nil")
	}
	if p.model == "" {
		return "", errors.New("Complete: model is empty")
	}
	if maxTokens <= 0 {
		return "", fmt.Errorf("Complete: maxTokens must be > 0, got %d", maxTokens)
	}

	params := responses.ResponseNewParams{
		Model:           p.model,
		MaxOutputTokens: openai.Int(int64(maxTokens)),
		Temperature:     openai.Float(p.temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := completeWithRetry(ctx, p.client, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

const digestInstructions = `You are given the final summary of a reddit discussion thread.
Produce a compact digest: a 2-4 sentence summary, the key points raised in
the discussion, and short lowercase topical tags.
Return a single JSON object matching the schema. Do not include any other text.`

var digestSchema = generateSchema[summarize.ThreadDigest]()

// Digest asks the model for a structured final digest of the run.
func (p *OpenAI) Digest(ctx context.Context, title, summary string) (summarize.ThreadDigest, error) {
	if p.client == nil {
		return summarize.ThreadDigest{}, errors.New("Digest: client is nil")
	}
	if p.model == "" {
		return summarize.ThreadDigest{}, errors.New("Digest: model is empty")
	}

	input := "Title: " + title + "\n\n" + summary
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "ThreadDigest",
			Schema:      digestSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Thread digest JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           p.model,
		MaxOutputTokens: openai.Int(1200),
		Instructions:    openai.String(digestInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := completeWithRetry(ctx, p.client, params)
	if err != nil {
		return summarize.ThreadDigest{}, err
	}

	var out summarize.ThreadDigest
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return summarize.ThreadDigest{}, fmt.Errorf("Digest: unmarshal digest: %w", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	return out, nil
}

// ListModels returns the IDs of the models available to the configured key,
// sorted.
func (p *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	if p.client == nil {
		return nil, errors.New("ListModels: client is nil")
	}

	var ids []string
	iter := p.client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		ids = append(ids, iter.Current().ID)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("ListModels: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func completeWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxAttempts = 3
	rateLimitWaits := []time.Duration{65 * time.Second, 100 * time.Second, 135 * time.Second}
	serverErrorWaits := []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		if attempt == maxAttempts-1 {
			return nil, err
		}

		var wait time.Duration
		switch {
		case isRateLimitError(err):
			wait = rateLimitWaits[attempt]
		case isServerError(err):
			wait = serverErrorWaits[attempt]
		default:
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("failed after %d attempts due to OpenAI API issues", maxAttempts)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "500") ||
		strings.Contains(s, "internal server error") ||
		strings.Contains(s, "server_error")
}

// decodeModelJSON unmarshals model output, tolerating stray prose around the
// JSON object.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}

// generateSchema reflects T into a JSON schema tightened to what the OpenAI
// strict structured-output mode accepts: no additionalProperties, every
// property required.
func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	ensureStrictCompliance(m)
	return m
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

func ensureStrictCompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				sort.Strings(requiredFields)
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureStrictCompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureStrictCompliance(items)
	}

	if additionalProps, ok := schema[additionalPropertiesKey].(map[string]interface{}); ok {
		ensureStrictCompliance(additionalProps)
	}
}
