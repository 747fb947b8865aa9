package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

// MockReportPublisher stands in for the RabbitMQ broker in relay tests.
type MockReportPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.ReportGeneratedEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.ReportEventPublisher = (*MockReportPublisher)(nil)

func NewMockReportPublisher() *MockReportPublisher {
	return &MockReportPublisher{
		PublishedEvents: make([]ports.ReportGeneratedEvent, 0),
	}
}

func (m *MockReportPublisher) PublishReportGenerated(ctx context.Context, evt ports.ReportGeneratedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the published events.
func (m *MockReportPublisher) GetPublishedEvents() []ports.ReportGeneratedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.ReportGeneratedEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockReportPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

func (m *MockReportPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]ports.ReportGeneratedEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
