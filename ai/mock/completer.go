package mock

import (
	"context"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns a fixed minimal JSON object.
	CompleteFunc func(ctx context.Context, system, user string) (string, error)

	callCount int
}

// NewMockCompleter creates a mock completer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns the injected completion, or a fixed minimal JSON
// object when no function is set.
func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}

	return `{"mock": true}`, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
