package mocks

import (
	"context"
	"sync"
)

// Mock Scraper
type MockScraper struct {
	Reviews []string
	Err     error

	mu   sync.Mutex
	urls []string
}

func (m *MockScraper) Scrape(ctx context.Context, url string) ([]string, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Reviews, nil
}

// URLs returns the URLs Scrape was called with, in call order
func (m *MockScraper) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.urls...)
}
