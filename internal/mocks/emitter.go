package mocks

import (
	"context"
	"sync"

	"github.com/stackit/stackit-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter, recording every emitted
// event for assertions.
type MockEventEmitter struct {
	mu     sync.Mutex
	Events []*events.TaskRequestEvent
	Err    error
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}

// Emitted returns a snapshot of the events emitted so far.
func (m *MockEventEmitter) Emitted() []*events.TaskRequestEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.TaskRequestEvent(nil), m.Events...)
}
