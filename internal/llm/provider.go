// Package llm wraps the external generation provider behind a narrow
// completion contract.
package llm

import "context"

// Provider defines the interface for generation providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
