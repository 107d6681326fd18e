//go:build e2e

package e2e

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/handler/dto/request"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/gateway"
	"entrypass-engine/internal/infra/repository"
	"entrypass-engine/internal/notify"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/config"
	"entrypass-engine/internal/sweeper"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// engineHarness wires the whole engine against a real PostgreSQL store, the
// same shape the fx modules build in production.
type engineHarness struct {
	clk   *clock.MockClock
	cache *cache.Cache
	board *events.WarningBoard

	travelerUC commands.TravelerCommands
	entryUC    commands.EntryCommands
	entryQ     queries.EntryQueries
	warningQ   queries.WarningQueries
	sweeper    *sweeper.Sweeper
	notifier   *notify.MemoryNotifier
	notify     *notify.Service
	snapshots  *repository.SnapshotRepository
}

func newEngineHarness(t *testing.T) *engineHarness {
	t.Helper()
	cfg := config.NewTestEngineConfig()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	st, _ := setupPostgresStore(t, clk)

	logger := slog.Default()
	c := cache.New(clk, cfg.CacheTTL)
	bus := events.NewBus(logger)
	board := events.NewWarningBoard(cfg.WarningRetention)

	passports := repository.NewPassportRepository(st, c, bus, clk)
	personal := repository.NewPersonalInfoRepository(st, c, bus, clk)
	funds := repository.NewFundsRepository(st, c, bus, clk)
	travelInfo := repository.NewTravelInfoRepository(st, c, bus, clk)
	profiles := repository.NewProfileReader(passports, personal, funds, travelInfo)
	entries := repository.NewEntryRepository(st, c, bus, clk)
	snapshots := repository.NewSnapshotRepository(st)

	notifier := notify.NewMemoryNotifier()
	schedules := repository.NewNotificationRepository(st)
	prefs := repository.NewPreferenceRepository(st)
	notifySvc := notify.NewService(notifier, schedules, prefs, clk, logger, cfg)

	policy := snapshot.NewPolicy(cfg.SignificantFieldOverrides())
	watcher := events.NewResubmissionWatcher(bus, board, entries, snapshots, profiles, policy, clk, logger)
	t.Cleanup(watcher.Start())

	sw := sweeper.New(entries, notifySvc, clk, logger, cfg)

	return &engineHarness{
		clk:        clk,
		cache:      c,
		board:      board,
		travelerUC: commands.NewTravelerUseCase(passports, personal, funds, travelInfo, prefs, entries, notifySvc, clk),
		entryUC: commands.NewEntryUseCase(
			entries, snapshots, profiles, board, notifySvc,
			gateway.NewLocalSubmission(clk), clk,
		),
		entryQ:    queries.NewEntryQueries(entries, profiles),
		warningQ:  queries.NewWarningQueries(board),
		sweeper:   sw,
		notifier:  notifier,
		notify:    notifySvc,
		snapshots: snapshots,
	}
}

func (h *engineHarness) fillTraveler(t *testing.T, userID uuid.UUID, arrival time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := h.travelerUC.SavePassport(ctx, userID, request.PassportRequest{
		PassportNumber: "AB1234567",
		FullName:       "Taro Yamada",
		Nationality:    "JPN",
		DateOfBirth:    "1990-01-15",
		Sex:            "M",
		ExpiryDate:     "2030-01-15",
		IssuingCountry: "JPN",
	})
	require.NoError(t, err)

	_, err = h.travelerUC.SavePersonalInfo(ctx, userID, request.PersonalInfoRequest{
		Email:              "taro@example.com",
		Phone:              "+81-90-1234-5678",
		Occupation:         "Engineer",
		HomeAddress:        "1-2-3 Shibuya",
		CityOfResidence:    "Tokyo",
		CountryOfResidence: "JPN",
	})
	require.NoError(t, err)

	_, err = h.travelerUC.SaveFunds(ctx, userID, request.FundsRequest{
		Items: []request.FundItemRequest{{Type: "cash", Currency: "USD", Amount: 2000}},
	})
	require.NoError(t, err)

	_, err = h.travelerUC.SaveTravelInfo(ctx, userID, "JP", request.TravelInfoRequest{
		ArrivalDate:          &arrival,
		FlightNumber:         "NH105",
		DepartureCountry:     "JPN",
		AccommodationType:    "hotel",
		AccommodationAddress: "99 Harbor Road",
		PurposeOfVisit:       "tourism",
	})
	require.NoError(t, err)
}

type LifecycleSuite struct {
	suite.Suite
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

// TestFullLifecycle walks one record through the whole engine: create, fill,
// submit, diverge, resubmit, and finally sweep past the arrival window.
func (s *LifecycleSuite) TestFullLifecycle() {
	t := s.T()
	ctx := context.Background()
	h := newEngineHarness(t)
	userID := uuid.New()
	arrival := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	rec, err := h.entryUC.CreateEntry(ctx, userID, request.CreateEntryRequest{
		DestinationID: "JP",
		ArrivalDate:   &arrival,
	})
	require.NoError(t, err)
	s.Equal(entry.StatusInProgress, rec.Status())

	// Reminders were scheduled off the arrival date.
	pending, err := h.notifier.ListScheduled(ctx)
	require.NoError(t, err)
	s.NotEmpty(pending)

	readiness, err := h.entryQ.Readiness(ctx, userID, "JP")
	require.NoError(t, err)
	s.False(readiness.Ready)

	h.fillTraveler(t, userID, arrival)

	readiness, err = h.entryQ.Readiness(ctx, userID, "JP")
	require.NoError(t, err)
	s.True(readiness.Ready)

	result, err := h.entryUC.Submit(ctx, userID, rec.ID())
	require.NoError(t, err)
	require.True(t, result.Success)

	view, err := h.entryQ.GetByID(ctx, userID, rec.ID())
	require.NoError(t, err)
	s.Equal(entry.StatusSubmitted.String(), view.Status)

	snap, err := h.snapshots.LatestForEntry(ctx, rec.ID())
	require.NoError(t, err)
	s.Equal("AB1234567", snap.Profile.Passport.PassportNumber)

	// A post-submission passport change must surface a warning.
	_, err = h.travelerUC.SavePassport(ctx, userID, request.PassportRequest{PassportNumber: "XZ9999999"})
	require.NoError(t, err)

	warnings, err := h.warningQ.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	s.True(warnings[0].RequiresImmediateResubmission)

	result, err = h.entryUC.ResubmitNow(ctx, userID, rec.ID())
	require.NoError(t, err)
	require.True(t, result.Success)

	warnings, err = h.warningQ.ListByUser(ctx, userID)
	require.NoError(t, err)
	s.Empty(warnings)

	// The fresh snapshot replaced the baseline, so no new warning appears on
	// an identical re-read.
	snap, err = h.snapshots.LatestForEntry(ctx, rec.ID())
	require.NoError(t, err)
	s.Equal("XZ9999999", snap.Profile.Passport.PassportNumber)

	// Sweep exactly at the boundary: nothing happens.
	h.clk.Set(arrival.Add(24 * time.Hour))
	h.sweeper.RunOnce(ctx)
	view, err = h.entryQ.GetByID(ctx, userID, rec.ID())
	require.NoError(t, err)
	s.Equal(entry.StatusSubmitted.String(), view.Status)

	// One second past the window the record is archived for good.
	h.clk.Add(time.Second)
	h.sweeper.RunOnce(ctx)

	view, err = h.entryQ.GetByID(ctx, userID, rec.ID())
	require.NoError(t, err)
	s.Equal(entry.StatusArchived.String(), view.Status)

	stats := h.sweeper.Stats()
	s.Equal(1, stats.RecordsArchived)
	s.Empty(stats.RecentErrors)
}

// TestExpiredRecordLifecycle covers the unsubmitted path: the record expires
// once the arrival passes and is archived after the grace window.
func (s *LifecycleSuite) TestExpiredRecordLifecycle() {
	t := s.T()
	ctx := context.Background()
	h := newEngineHarness(t)
	userID := uuid.New()
	arrival := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	rec, err := h.entryUC.CreateEntry(ctx, userID, request.CreateEntryRequest{
		DestinationID: "JP",
		ArrivalDate:   &arrival,
	})
	require.NoError(t, err)

	h.clk.Set(arrival.Add(time.Hour))
	h.sweeper.RunOnce(ctx)

	view, err := h.entryQ.GetByID(ctx, userID, rec.ID())
	require.NoError(t, err)
	s.Equal(entry.StatusExpired.String(), view.Status)

	h.clk.Set(arrival.Add(25 * time.Hour))
	h.sweeper.RunOnce(ctx)

	view, err = h.entryQ.GetByID(ctx, userID, rec.ID())
	require.NoError(t, err)
	s.Equal(entry.StatusArchived.String(), view.Status)
	require.NotNil(t, view.ExpiredAt)

	// The slot is free again for a fresh attempt.
	_, err = h.entryUC.CreateEntry(ctx, userID, request.CreateEntryRequest{DestinationID: "JP"})
	s.NoError(err)
}
