// Package mock provides test double implementations of AI service interfaces.
//
// This package contains a mock implementation of ai.Completer for use in
// unit tests. The mock allows tests to run without external model services
// and enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	completer := mock.NewMockCompleter()
//	raw, err := completer.Complete(ctx, "system", "user")
//
//	// Custom behavior injection
//	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
//	    return "```json\n{broken: \"output\"}\n```", nil
//	}
//
//	// Check call counts
//	count := completer.CallCount()
package mock
