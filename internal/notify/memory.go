package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryNotifier is an in-process Notifier used in tests and in hosts without
// an OS notification layer. It only tracks pending requests; nothing fires.
type MemoryNotifier struct {
	mu      sync.Mutex
	pending map[string]Request
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{pending: make(map[string]Request)}
}

func (m *MemoryNotifier) Schedule(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.pending[id] = req
	return id, nil
}

func (m *MemoryNotifier) Cancel(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[id]; !ok {
		return false, nil
	}
	delete(m.pending, id)
	return true, nil
}

func (m *MemoryNotifier) ListScheduled(_ context.Context) ([]Scheduled, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Scheduled, 0, len(m.pending))
	for id, req := range m.pending {
		out = append(out, Scheduled{ID: id, Request: req})
	}
	return out, nil
}
