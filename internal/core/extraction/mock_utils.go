package extraction

import (
	"context"
	"sync"
)

// MockLLMClient answers from ResponseQueue in order, then with Response.
type MockLLMClient struct {
	mu sync.Mutex

	Response      string
	ResponseQueue []string
	Err           error

	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
