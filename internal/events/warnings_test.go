//go:build unit

package events_test

import (
	"testing"
	"time"

	"entrypass-engine/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warningAt(entryID uuid.UUID, ts time.Time) events.ResubmissionWarning {
	return events.ResubmissionWarning{
		Type:        events.EventResubmissionWarning,
		EntryInfoID: entryID,
		UserID:      uuid.New(),
		Timestamp:   ts,
	}
}

func TestWarningBoardRetention(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("capacity is enforced by evicting the oldest", func(t *testing.T) {
		board := events.NewWarningBoard(3)

		oldest := warningAt(uuid.New(), base)
		middle := warningAt(uuid.New(), base.Add(time.Minute))
		newest := warningAt(uuid.New(), base.Add(2*time.Minute))
		board.Put(oldest)
		board.Put(middle)
		board.Put(newest)
		require.Equal(t, 3, board.Len())

		extra := warningAt(uuid.New(), base.Add(3*time.Minute))
		board.Put(extra)

		assert.Equal(t, 3, board.Len())
		_, ok := board.Get(oldest.EntryInfoID)
		assert.False(t, ok, "oldest warning should have been evicted")
		_, ok = board.Get(extra.EntryInfoID)
		assert.True(t, ok)
	})

	t.Run("replacing an existing entry does not evict", func(t *testing.T) {
		board := events.NewWarningBoard(2)

		first := warningAt(uuid.New(), base)
		second := warningAt(uuid.New(), base.Add(time.Minute))
		board.Put(first)
		board.Put(second)

		updated := warningAt(first.EntryInfoID, base.Add(2*time.Minute))
		board.Put(updated)

		assert.Equal(t, 2, board.Len())
		got, ok := board.Get(first.EntryInfoID)
		require.True(t, ok)
		assert.Equal(t, updated.Timestamp, got.Timestamp)
		_, ok = board.Get(second.EntryInfoID)
		assert.True(t, ok)
	})
}

func TestWarningBoardResolve(t *testing.T) {
	board := events.NewWarningBoard(10)
	w := warningAt(uuid.New(), time.Now())
	board.Put(w)

	assert.True(t, board.Resolve(w.EntryInfoID))
	assert.False(t, board.Resolve(w.EntryInfoID))
	assert.Zero(t, board.Len())
}

func TestWarningBoardByUser(t *testing.T) {
	board := events.NewWarningBoard(10)
	userID := uuid.New()

	mine := events.ResubmissionWarning{EntryInfoID: uuid.New(), UserID: userID}
	other := events.ResubmissionWarning{EntryInfoID: uuid.New(), UserID: uuid.New()}
	board.Put(mine)
	board.Put(other)

	got := board.ByUser(userID)
	require.Len(t, got, 1)
	assert.Equal(t, mine.EntryInfoID, got[0].EntryInfoID)
}
