package mocks

import (
	"sync"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

// MockMetrics counts recorded business metrics by label.
type MockMetrics struct {
	mu sync.Mutex

	Submitted int
	Passes    map[string]int
	Reports   map[string]int
}

var _ ports.Metrics = (*MockMetrics)(nil)

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Passes:  make(map[string]int),
		Reports: make(map[string]int),
	}
}

func (m *MockMetrics) MealResponseSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted++
}

func (m *MockMetrics) PassChecked(meal string, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Passes[meal+"/"+status]++
}

func (m *MockMetrics) ReportRequested(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[status]++
}

func (m *MockMetrics) PassCount(meal, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Passes[meal+"/"+status]
}

func (m *MockMetrics) ReportCount(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Reports[status]
}
