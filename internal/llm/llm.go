package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for resume parsing.
type Client interface {
	ParseResume(ctx context.Context, normalizedText string) (json.RawMessage, error)
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(fixJSONKey{})
	raw, ok := val.(string)
	return raw, ok
}

type promptHashKey struct{}

// WithPromptHashSink returns a context that captures the hash of the prompt
// actually sent to the provider.
func WithPromptHashSink(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, promptHashKey{}, sink)
}

// PromptHashSinkFromContext returns the prompt hash sink, if any.
func PromptHashSinkFromContext(ctx context.Context) (*string, bool) {
	val := ctx.Value(promptHashKey{})
	sink, ok := val.(*string)
	return sink, ok
}

// ErrNotConfigured is returned when no provider is wired.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient stands in when no provider is configured; callers fall
// back to the heuristic parser.
type PlaceholderClient struct{}

func (PlaceholderClient) ParseResume(ctx context.Context, normalizedText string) (json.RawMessage, error) {
	_ = ctx
	_ = normalizedText
	return nil, ErrNotConfigured
}
