package events

import (
	"sync"

	"github.com/google/uuid"
)

// WarningBoard retains the most recent unresolved resubmission warning per
// entry record. Retention is bounded: when a new warning would exceed the
// cap, the oldest warning by timestamp is evicted. Warnings are derived
// state and are never persisted.
type WarningBoard struct {
	mu       sync.RWMutex
	byEntry  map[uuid.UUID]ResubmissionWarning
	capacity int
}

func NewWarningBoard(capacity int) *WarningBoard {
	if capacity <= 0 {
		capacity = 10
	}
	return &WarningBoard{
		byEntry:  make(map[uuid.UUID]ResubmissionWarning),
		capacity: capacity,
	}
}

// Put stores or replaces the warning for its entry record, evicting the
// oldest-by-timestamp warning if the board is full.
func (w *WarningBoard) Put(warning ResubmissionWarning) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byEntry[warning.EntryInfoID]; !exists && len(w.byEntry) >= w.capacity {
		w.evictOldestLocked()
	}
	w.byEntry[warning.EntryInfoID] = warning
}

func (w *WarningBoard) Get(entryInfoID uuid.UUID) (ResubmissionWarning, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	warning, ok := w.byEntry[entryInfoID]
	return warning, ok
}

func (w *WarningBoard) ByUser(userID uuid.UUID) []ResubmissionWarning {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []ResubmissionWarning
	for _, warning := range w.byEntry {
		if warning.UserID == userID {
			out = append(out, warning)
		}
	}
	return out
}

// Resolve drops the warning for an entry record. Called when the user acts on
// it (resubmit or ignore) or when the record is marked superseded.
func (w *WarningBoard) Resolve(entryInfoID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byEntry[entryInfoID]; !ok {
		return false
	}
	delete(w.byEntry, entryInfoID)
	return true
}

func (w *WarningBoard) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.byEntry)
}

func (w *WarningBoard) evictOldestLocked() {
	var oldest uuid.UUID
	first := true
	for id, warning := range w.byEntry {
		if first || warning.Timestamp.Before(w.byEntry[oldest].Timestamp) {
			oldest = id
			first = false
		}
	}
	if !first {
		delete(w.byEntry, oldest)
	}
}
