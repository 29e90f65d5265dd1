package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/muster/internal/model"
)

// MockWriter is a test implementation of a sheets exporter.
type MockWriter struct {
	Err     error
	URL     string
	exports [][]model.AttendanceRecord
	mu      sync.Mutex
}

// NewMockWriter creates a mock that reports url on success.
func NewMockWriter(url string) *MockWriter {
	return &MockWriter{URL: url}
}

// Export records the call.
func (m *MockWriter) Export(_ context.Context, records []model.AttendanceRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.exports = append(m.exports, append([]model.AttendanceRecord(nil), records...))
	return m.URL, nil
}

// Exports returns every exported record set.
func (m *MockWriter) Exports() [][]model.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.AttendanceRecord(nil), m.exports...)
}
