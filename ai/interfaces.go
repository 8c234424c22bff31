package ai

import "context"

// Completer requests text completions from a chat model.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends a system prompt and user prompt to the model and
	// returns the raw completion text. The text is returned exactly as
	// the model produced it; callers needing strict JSON should run it
	// through the repair pipeline.
	// Returns an error if the completion request fails.
	Complete(ctx context.Context, system, user string) (string, error)
}
