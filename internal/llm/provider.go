package llm

import "context"

// Provider is the generation provider consumed by the query engine. It is
// treated as a black box that returns text or fails.
type Provider interface {
	// Complete sends a chat completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
