package store

import (
	"context"
	"sync"

	"entrypass-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by unit tests and as a no-database
// fallback. Same contract as the Postgres adapter: per-call atomicity,
// upsert-only writes.
type Memory struct {
	mu    sync.RWMutex
	kinds map[string]map[string]Record
	clock clock.Clock
}

func NewMemory(clk clock.Clock) *Memory {
	return &Memory{
		kinds: make(map[string]map[string]Record),
		clock: clk,
	}
}

func (m *Memory) Get(_ context.Context, kind, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.UpdatedAt = m.clock.Now()
	byID := m.kinds[rec.Kind]
	if byID == nil {
		byID = make(map[string]Record)
		m.kinds[rec.Kind] = byID
	}
	byID[rec.ID] = rec
	return nil
}

func (m *Memory) ByUser(_ context.Context, kind string, userID uuid.UUID) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.kinds[kind] {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) ByUserAndDestination(_ context.Context, kind string, userID uuid.UUID, destinationID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.kinds[kind] {
		if rec.UserID == userID && rec.DestinationID == destinationID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) Users(_ context.Context, kind string) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, rec := range m.kinds[kind] {
		if _, ok := seen[rec.UserID]; ok {
			continue
		}
		seen[rec.UserID] = struct{}{}
		out = append(out, rec.UserID)
	}
	return out, nil
}
