package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockEventPublisher records events in memory.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	logger *slog.Logger

	// Err is returned by Publish when set.
	Err error
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *Event) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	if m.logger != nil {
		m.logger.Debug("Mock event published", "event_type", event.Type)
	}
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}

// EventsOfType filters recorded events.
func (m *MockEventPublisher) EventsOfType(t EventType) []*Event {
	var out []*Event
	for _, e := range m.GetPublishedEvents() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
