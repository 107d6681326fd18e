//go:build unit

package sweeper_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/config"
	"entrypass-engine/internal/sweeper"
	"entrypass-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweepRecords struct {
	recs    []*entry.Record
	saveErr error
	saved   []*entry.Record
	onScan  func()
}

func (f *fakeSweepRecords) Users(context.Context) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var users []uuid.UUID
	for _, r := range f.recs {
		if !seen[r.UserID()] {
			seen[r.UserID()] = true
			users = append(users, r.UserID())
		}
	}
	return users, nil
}

func (f *fakeSweepRecords) NonArchivedByUser(_ context.Context, userID uuid.UUID) ([]*entry.Record, error) {
	if f.onScan != nil {
		f.onScan()
	}
	var out []*entry.Record
	for _, r := range f.recs {
		if r.UserID() == userID && r.Status() != entry.StatusArchived {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSweepRecords) Save(_ context.Context, rec *entry.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

type fakeNotifications struct {
	archivals []uuid.UUID
	cancelled []uuid.UUID
}

func (f *fakeNotifications) ScheduleArchival(_ context.Context, rec *entry.Record, _ string) {
	f.archivals = append(f.archivals, rec.ID())
}

func (f *fakeNotifications) CancelForRecord(_ context.Context, entryID uuid.UUID) {
	f.cancelled = append(f.cancelled, entryID)
}

var arrival = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newSweeper(recs *fakeSweepRecords, notifs *fakeNotifications, now time.Time) (*sweeper.Sweeper, *clock.MockClock) {
	clk := clock.NewMockClock(now)
	return sweeper.New(recs, notifs, clk, slog.Default(), config.NewTestEngineConfig()), clk
}

func TestSweepArchivesPastWindow(t *testing.T) {
	rec := builder.NewEntryBuilder().BuildSubmitted()
	recs := &fakeSweepRecords{recs: []*entry.Record{rec}}
	notifs := &fakeNotifications{}

	t.Run("exactly at the boundary nothing happens", func(t *testing.T) {
		s, _ := newSweeper(recs, notifs, arrival.Add(24*time.Hour))
		s.RunOnce(context.Background())

		assert.Equal(t, entry.StatusSubmitted, rec.Status())
		assert.Empty(t, recs.saved)
	})

	t.Run("one second past the boundary archives", func(t *testing.T) {
		s, _ := newSweeper(recs, notifs, arrival.Add(24*time.Hour+time.Second))
		s.RunOnce(context.Background())

		assert.Equal(t, entry.StatusArchived, rec.Status())
		require.Len(t, recs.saved, 1)
		assert.Equal(t, []uuid.UUID{rec.ID()}, notifs.cancelled)
		assert.Equal(t, []uuid.UUID{rec.ID()}, notifs.archivals)

		stats := s.Stats()
		assert.Equal(t, 1, stats.RecordsArchived)
		assert.Zero(t, stats.RecordsExpired)
	})
}

func TestSweepExpiresBeforeArchiving(t *testing.T) {
	rec := builder.NewEntryBuilder().Build()
	recs := &fakeSweepRecords{recs: []*entry.Record{rec}}
	notifs := &fakeNotifications{}

	s, _ := newSweeper(recs, notifs, arrival.Add(48*time.Hour))
	s.RunOnce(context.Background())

	assert.Equal(t, entry.StatusArchived, rec.Status())
	assert.NotNil(t, rec.ExpiredAt())

	stats := s.Stats()
	assert.Equal(t, 1, stats.RecordsArchived)
	assert.Equal(t, 1, stats.RecordsExpired)
}

func TestSweepExpiresPastArrivalInsideWindow(t *testing.T) {
	rec := builder.NewEntryBuilder().Build()
	recs := &fakeSweepRecords{recs: []*entry.Record{rec}}
	notifs := &fakeNotifications{}

	s, _ := newSweeper(recs, notifs, arrival.Add(time.Hour))
	s.RunOnce(context.Background())

	assert.Equal(t, entry.StatusExpired, rec.Status())
	require.Len(t, recs.saved, 1)
	assert.Empty(t, notifs.archivals)

	stats := s.Stats()
	assert.Equal(t, 1, stats.RecordsExpired)
	assert.Zero(t, stats.RecordsArchived)
}

func TestSweepSkipsRecordsWithoutArrival(t *testing.T) {
	rec := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
		b.ArrivalDate = nil
	}).Build()
	recs := &fakeSweepRecords{recs: []*entry.Record{rec}}

	s, _ := newSweeper(recs, &fakeNotifications{}, arrival.Add(48*time.Hour))
	s.RunOnce(context.Background())

	assert.Equal(t, entry.StatusInProgress, rec.Status())
	stats := s.Stats()
	assert.Equal(t, 1, stats.RecordsScanned)
	assert.Zero(t, stats.RecordsArchived)
}

func TestSweepErrorRingIsBounded(t *testing.T) {
	var all []*entry.Record
	for range 15 {
		all = append(all, builder.NewEntryBuilder().BuildSubmitted())
	}
	recs := &fakeSweepRecords{recs: all, saveErr: assert.AnError}
	notifs := &fakeNotifications{}

	s, _ := newSweeper(recs, notifs, arrival.Add(48*time.Hour))
	s.RunOnce(context.Background())

	stats := s.Stats()
	assert.Zero(t, stats.RecordsArchived)
	assert.Len(t, stats.RecentErrors, 10)
	assert.Empty(t, notifs.archivals)
}

func TestSweepStatsAccumulateAcrossRuns(t *testing.T) {
	rec := builder.NewEntryBuilder().BuildSubmitted()
	recs := &fakeSweepRecords{recs: []*entry.Record{rec}}

	s, clk := newSweeper(recs, &fakeNotifications{}, arrival.Add(time.Hour))
	s.RunOnce(context.Background())
	clk.Add(48 * time.Hour)
	s.RunOnce(context.Background())

	stats := s.Stats()
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 2, stats.RecordsScanned)
	assert.Equal(t, 1, stats.RecordsArchived)
	require.NotNil(t, stats.LastRunAt)
	assert.Equal(t, clk.Now(), *stats.LastRunAt)
}

func TestSweepTracksPassDuration(t *testing.T) {
	rec := builder.NewEntryBuilder().BuildSubmitted()
	recs := &fakeSweepRecords{recs: []*entry.Record{rec}}

	s, clk := newSweeper(recs, &fakeNotifications{}, arrival.Add(time.Hour))
	recs.onScan = func() { clk.Add(90 * time.Millisecond) }
	s.RunOnce(context.Background())

	stats := s.Stats()
	assert.Equal(t, 90*time.Millisecond, stats.LastDuration)
}
