package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/muster/internal/model"
)

// MockExtractor is a test implementation of the Extractor interface.
// It replays queued responses in order and records every call.
type MockExtractor struct {
	block     chan struct{}
	responses []MockResponse
	calls     []MockExtractCall
	mu        sync.Mutex
}

// MockResponse is one queued reply.
type MockResponse struct {
	Error  error
	Result model.ExtractionResult
}

// MockExtractCall records the arguments of an extraction request.
type MockExtractCall struct {
	Text   string
	Images []model.Image
	Rules  []model.LearningRule
}

// NewMockExtractor creates a mock that replies with the given responses in
// order. Once they are used up it returns an empty result.
func NewMockExtractor(responses ...MockResponse) *MockExtractor {
	return &MockExtractor{
		responses: responses,
		calls:     make([]MockExtractCall, 0),
	}
}

// Enqueue appends further responses.
func (m *MockExtractor) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// Block makes subsequent calls wait until the returned release func is called.
func (m *MockExtractor) Block() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Extract returns the next queued response.
func (m *MockExtractor) Extract(ctx context.Context, text string, images []model.Image, rules []model.LearningRule) (model.ExtractionResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockExtractCall{
		Text:   text,
		Images: append([]model.Image(nil), images...),
		Rules:  append([]model.LearningRule(nil), rules...),
	})
	block := m.block
	var next MockResponse
	if len(m.responses) > 0 {
		next = m.responses[0]
		m.responses = m.responses[1:]
	}
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return model.ExtractionResult{}, ctx.Err()
		}
	}

	return next.Result, next.Error
}

// Calls returns a copy of the recorded calls.
func (m *MockExtractor) Calls() []MockExtractCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockExtractCall(nil), m.calls...)
}
