package generative

import "context"

// MockGenerator is an in-process Generator for tests.
type MockGenerator struct {
	Response   string
	Err        error
	Calls      int
	LastPrompt string
	Available  bool
}

// Configured reports the mock's availability flag.
func (m *MockGenerator) Configured() bool {
	return m.Available
}

// Generate records the call and returns the canned response or error.
func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
