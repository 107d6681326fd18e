//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/handler/dto/request"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/gateway"
	"entrypass-engine/internal/infra/repository"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	scheduled   []uuid.UUID
	superseded  []uuid.UUID
	rescheduled []uuid.UUID
	cancelled   []uuid.UUID
	snoozed     []uuid.UUID
}

func (f *fakeScheduler) ScheduleReminders(_ context.Context, rec *entry.Record, _ string) {
	f.scheduled = append(f.scheduled, rec.ID())
}

func (f *fakeScheduler) ScheduleSuperseded(_ context.Context, rec *entry.Record, _ string) {
	f.superseded = append(f.superseded, rec.ID())
}

func (f *fakeScheduler) RescheduleForArrivalChange(_ context.Context, rec *entry.Record, _ string) {
	f.rescheduled = append(f.rescheduled, rec.ID())
}

func (f *fakeScheduler) CancelReminders(_ context.Context, entryID uuid.UUID) {
	f.cancelled = append(f.cancelled, entryID)
}

func (f *fakeScheduler) RemindLater(_ context.Context, rec *entry.Record, _ string) {
	f.snoozed = append(f.snoozed, rec.ID())
}

type commandHarness struct {
	uc        commands.EntryCommands
	entries   *repository.EntryRepository
	snapshots *repository.SnapshotRepository
	profiles  *repository.ProfileReader
	board     *events.WarningBoard
	scheduler *fakeScheduler
	clk       *clock.MockClock

	passports  *repository.PassportRepository
	personal   *repository.PersonalInfoRepository
	funds      *repository.FundsRepository
	travelInfo *repository.TravelInfoRepository
}

func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	st := store.NewMemory(clk)
	c := cache.New(clk, 5*time.Minute)
	bus := events.NewBus(slog.Default())

	h := &commandHarness{
		entries:    repository.NewEntryRepository(st, c, bus, clk),
		snapshots:  repository.NewSnapshotRepository(st),
		board:      events.NewWarningBoard(10),
		scheduler:  &fakeScheduler{},
		clk:        clk,
		passports:  repository.NewPassportRepository(st, c, bus, clk),
		personal:   repository.NewPersonalInfoRepository(st, c, bus, clk),
		funds:      repository.NewFundsRepository(st, c, bus, clk),
		travelInfo: repository.NewTravelInfoRepository(st, c, bus, clk),
	}
	h.profiles = repository.NewProfileReader(h.passports, h.personal, h.funds, h.travelInfo)
	h.uc = commands.NewEntryUseCase(
		h.entries, h.snapshots, h.profiles, h.board, h.scheduler,
		gateway.NewLocalSubmission(clk), clk,
	)
	return h
}

// fillProfile writes a complete traveler profile through the repositories.
func (h *commandHarness) fillProfile(t *testing.T, userID uuid.UUID, destinationID string) {
	t.Helper()
	ctx := context.Background()
	p := builder.NewProfileBuilder().With(func(b *builder.ProfileBuilder) {
		b.UserID = userID
		b.DestinationID = destinationID
	}).BuildComplete()

	_, _, err := h.passports.Save(ctx, userID, p.Passport)
	require.NoError(t, err)
	_, _, err = h.personal.Save(ctx, userID, p.PersonalInfo)
	require.NoError(t, err)
	_, _, err = h.funds.Save(ctx, userID, p.Funds)
	require.NoError(t, err)
	_, _, err = h.travelInfo.Save(ctx, userID, destinationID, p.TravelInfo)
	require.NoError(t, err)
}

func (h *commandHarness) createEntry(t *testing.T, userID uuid.UUID) *entry.Record {
	t.Helper()
	arrival := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	rec, err := h.uc.CreateEntry(context.Background(), userID, request.CreateEntryRequest{
		DestinationID: "JP",
		ArrivalDate:   &arrival,
	})
	require.NoError(t, err)
	return rec
}

func (h *commandHarness) putWarning(rec *entry.Record, fields []string) {
	h.board.Put(events.ResubmissionWarning{
		Type:        events.EventResubmissionWarning,
		EntryInfoID: rec.ID(),
		UserID:      rec.UserID(),
		DiffResult:  snapshot.Result{HasChanges: true, ChangedFields: fields},
		Timestamp:   h.clk.Now(),
	})
}

func TestCreateEntry(t *testing.T) {
	h := newCommandHarness(t)
	userID := uuid.New()

	rec := h.createEntry(t, userID)
	assert.Equal(t, entry.StatusInProgress, rec.Status())
	assert.Equal(t, []uuid.UUID{rec.ID()}, h.scheduler.scheduled)

	t.Run("second active entry for the destination is rejected", func(t *testing.T) {
		_, err := h.uc.CreateEntry(context.Background(), userID, request.CreateEntryRequest{DestinationID: "JP"})
		assert.ErrorIs(t, err, commands.ErrEntryAlreadyActive)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	h := newCommandHarness(t)
	userID := uuid.New()
	rec := h.createEntry(t, userID)

	t.Run("incomplete profile is rejected without a state change", func(t *testing.T) {
		result, err := h.uc.Submit(ctx, userID, rec.ID())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.FailureReason)

		got, err := h.entries.ByID(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, entry.StatusInProgress, got.Status())
	})

	h.fillProfile(t, userID, "JP")

	t.Run("complete profile submits and snapshots", func(t *testing.T) {
		result, err := h.uc.Submit(ctx, userID, rec.ID())
		require.NoError(t, err)
		require.True(t, result.Success)

		var receipt gateway.Receipt
		require.NoError(t, json.Unmarshal(result.Receipt, &receipt))
		assert.Equal(t, "JP", receipt.DestinationID)
		assert.NotEmpty(t, receipt.ReceiptID)

		got, err := h.entries.ByID(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, entry.StatusSubmitted, got.Status())

		snap, err := h.snapshots.LatestForEntry(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, userID, snap.UserID)
		assert.Equal(t, "AB1234567", snap.Profile.Passport.PassportNumber)

		assert.Equal(t, []uuid.UUID{rec.ID()}, h.scheduler.cancelled)
	})

	t.Run("a submitted record cannot submit again", func(t *testing.T) {
		_, err := h.uc.Submit(ctx, userID, rec.ID())
		assert.ErrorIs(t, err, commands.ErrSubmissionRejected)
	})

	t.Run("someone else's record is invisible", func(t *testing.T) {
		_, err := h.uc.Submit(ctx, uuid.New(), rec.ID())
		assert.ErrorIs(t, err, commands.ErrEntryAccessDenied)
	})

	t.Run("unknown records are not found", func(t *testing.T) {
		_, err := h.uc.Submit(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrEntryNotFound)
	})
}

func TestSetArrivalDate(t *testing.T) {
	ctx := context.Background()
	h := newCommandHarness(t)
	userID := uuid.New()
	rec := h.createEntry(t, userID)

	newArrival := time.Date(2025, 6, 20, 8, 0, 0, 0, time.UTC)
	updated, err := h.uc.SetArrivalDate(ctx, userID, rec.ID(), request.ArrivalDateRequest{ArrivalDate: newArrival})
	require.NoError(t, err)
	require.NotNil(t, updated.ArrivalDate())
	assert.True(t, newArrival.Equal(*updated.ArrivalDate()))
	assert.Equal(t, []uuid.UUID{rec.ID()}, h.scheduler.rescheduled)

	got, err := h.entries.ByID(ctx, rec.ID())
	require.NoError(t, err)
	assert.True(t, newArrival.Equal(*got.ArrivalDate()))
}

func TestResubmitNow(t *testing.T) {
	ctx := context.Background()
	h := newCommandHarness(t)
	userID := uuid.New()
	rec := h.createEntry(t, userID)
	h.fillProfile(t, userID, "JP")

	_, err := h.uc.Submit(ctx, userID, rec.ID())
	require.NoError(t, err)

	t.Run("without a warning there is nothing to act on", func(t *testing.T) {
		_, err := h.uc.ResubmitNow(ctx, userID, rec.ID())
		assert.ErrorIs(t, err, commands.ErrWarningNotFound)
	})

	t.Run("with a warning the record cycles through superseded", func(t *testing.T) {
		h.putWarning(rec, []string{traveler.FieldPassportNumber})

		result, err := h.uc.ResubmitNow(ctx, userID, rec.ID())
		require.NoError(t, err)
		assert.True(t, result.Success)

		got, err := h.entries.ByID(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, entry.StatusSubmitted, got.Status())
		assert.Nil(t, got.SupersededAt())

		_, pending := h.board.Get(rec.ID())
		assert.False(t, pending)
	})
}

func TestAcknowledgeSuperseded(t *testing.T) {
	ctx := context.Background()
	h := newCommandHarness(t)
	userID := uuid.New()
	rec := h.createEntry(t, userID)
	h.fillProfile(t, userID, "JP")

	_, err := h.uc.Submit(ctx, userID, rec.ID())
	require.NoError(t, err)
	h.putWarning(rec, []string{traveler.FieldPassportNumber})

	updated, err := h.uc.AcknowledgeSuperseded(ctx, userID, rec.ID())
	require.NoError(t, err)
	assert.Equal(t, entry.StatusSuperseded, updated.Status())
	assert.Equal(t, []string{traveler.FieldPassportNumber}, updated.LastChangedFields())

	// The user gets an immediate staleness notice; the reminder schedule is
	// left alone because the arrival date did not move.
	assert.Equal(t, []uuid.UUID{rec.ID()}, h.scheduler.superseded)
	assert.Equal(t, []uuid.UUID{rec.ID()}, h.scheduler.scheduled)
	assert.Empty(t, h.scheduler.rescheduled)
	_, pending := h.board.Get(rec.ID())
	assert.False(t, pending)
}

func TestIgnoreWarning(t *testing.T) {
	ctx := context.Background()
	h := newCommandHarness(t)
	userID := uuid.New()
	rec := h.createEntry(t, userID)
	h.putWarning(rec, []string{traveler.FieldOccupation})

	t.Run("only the owner can dismiss", func(t *testing.T) {
		err := h.uc.IgnoreWarning(ctx, uuid.New(), rec.ID())
		assert.ErrorIs(t, err, commands.ErrEntryAccessDenied)
	})

	t.Run("dismissing resolves without touching the record", func(t *testing.T) {
		require.NoError(t, h.uc.IgnoreWarning(ctx, userID, rec.ID()))
		_, pending := h.board.Get(rec.ID())
		assert.False(t, pending)

		got, err := h.entries.ByID(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, entry.StatusInProgress, got.Status())
	})

	t.Run("dismissing twice reports the missing warning", func(t *testing.T) {
		err := h.uc.IgnoreWarning(ctx, userID, rec.ID())
		assert.True(t, errors.Is(err, commands.ErrWarningNotFound))
	})
}

func TestRemindLater(t *testing.T) {
	ctx := context.Background()
	h := newCommandHarness(t)
	userID := uuid.New()
	rec := h.createEntry(t, userID)

	require.NoError(t, h.uc.RemindLater(ctx, userID, rec.ID()))
	assert.Equal(t, []uuid.UUID{rec.ID()}, h.scheduler.snoozed)
}
