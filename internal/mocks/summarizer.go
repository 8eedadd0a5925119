package mocks

import (
	"context"
	"sync"
)

// Mock Summarizer
type MockSummarizer struct {
	Summary string
	Err     error

	mu          sync.Mutex
	calls       int
	lastReviews []string
	lastModel   string
}

func (m *MockSummarizer) Summarize(ctx context.Context, reviews []string, model string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastReviews = reviews
	m.lastModel = model
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Summary, nil
}

func (m *MockSummarizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

// Last returns the reviews and model of the most recent call
func (m *MockSummarizer) Last() ([]string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastReviews, m.lastModel
}
