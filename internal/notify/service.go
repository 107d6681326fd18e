package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/config"

	"github.com/google/uuid"
)

// Service owns the four notification families. All scheduling goes through
// scheduleFamily, which cancels any prior notifications of the same family
// for the record before scheduling new ones, so arrival-date changes and
// repeated submissions never stack duplicates.
//
// Notifier and store failures are logged and absorbed: a broken notification
// layer must never block a state transition or a data write.
type Service struct {
	notifier Notifier
	store    ScheduleStore
	prefs    PreferenceStore
	clock    clock.Clock
	logger   *slog.Logger

	windowOpenLead time.Duration
	urgentLead     time.Duration
	deadlineHour   int
	repeatEvery    time.Duration
	maxRepeats     int
}

func NewService(notifier Notifier, st ScheduleStore, prefs PreferenceStore, clk clock.Clock, logger *slog.Logger, cfg config.EngineConfig) *Service {
	return &Service{
		notifier:       notifier,
		store:          st,
		prefs:          prefs,
		clock:          clk,
		logger:         logger,
		windowOpenLead: cfg.WindowOpenLead,
		urgentLead:     cfg.UrgentLead,
		deadlineHour:   cfg.DeadlineHour,
		repeatEvery:    cfg.DeadlineRepeatEvery,
		maxRepeats:     cfg.DeadlineMaxRepeats,
	}
}

// ScheduleReminders sets up the three arrival-driven families for a record.
// Records without an arrival date get nothing; the date may arrive later via
// RescheduleForArrivalChange.
func (s *Service) ScheduleReminders(ctx context.Context, rec *entry.Record, destinationName string) {
	arrival := rec.ArrivalDate()
	if arrival == nil {
		return
	}

	s.scheduleFamily(ctx, rec, destinationName, KindWindowOpen,
		[]time.Time{arrival.Add(-s.windowOpenLead)},
		fmt.Sprintf("Entry window open for %s", destinationName),
		fmt.Sprintf("You can now submit your entry card for %s.", destinationName))

	s.scheduleFamily(ctx, rec, destinationName, KindUrgent,
		[]time.Time{arrival.Add(-s.urgentLead)},
		fmt.Sprintf("Arriving in %s soon", destinationName),
		fmt.Sprintf("Your arrival in %s is less than a day away. Submit your entry card now.", destinationName))

	s.scheduleFamily(ctx, rec, destinationName, KindDeadline,
		s.deadlineTimes(*arrival),
		fmt.Sprintf("Entry card due today for %s", destinationName),
		fmt.Sprintf("Today is your arrival day in %s and your entry card is not submitted.", destinationName))
}

// ScheduleArchival fires immediately when the sweeper archives a record, to
// tell the user the record was closed out.
func (s *Service) ScheduleArchival(ctx context.Context, rec *entry.Record, destinationName string) {
	s.scheduleFamily(ctx, rec, destinationName, KindArchival,
		[]time.Time{s.clock.Now()},
		fmt.Sprintf("Entry record archived for %s", destinationName),
		fmt.Sprintf("Your entry record for %s was archived after the arrival window closed.", destinationName))
}

// ScheduleSuperseded fires immediately when a submitted record is marked
// superseded without an instant resubmission, so the user knows the
// destination no longer holds their current data.
func (s *Service) ScheduleSuperseded(ctx context.Context, rec *entry.Record, destinationName string) {
	s.scheduleFamily(ctx, rec, destinationName, KindSuperseded,
		[]time.Time{s.clock.Now()},
		fmt.Sprintf("Entry card outdated for %s", destinationName),
		fmt.Sprintf("Your traveler data changed after submitting to %s. Resubmit when you are ready.", destinationName))
}

// RescheduleForArrivalChange is the single entry point for arrival-date
// edits. Every family is cancelled; the reminder families come back only
// while the record still needs a submission.
func (s *Service) RescheduleForArrivalChange(ctx context.Context, rec *entry.Record, destinationName string) {
	s.CancelForRecord(ctx, rec.ID())
	if rec.Status().NeedsSubmission() {
		s.ScheduleReminders(ctx, rec, destinationName)
	}
}

// CancelReminders drops the three pre-submission families, keeping any
// archival notice. Called when a record reaches submitted.
func (s *Service) CancelReminders(ctx context.Context, entryID uuid.UUID) {
	for _, kind := range ReminderKinds() {
		s.CancelKind(ctx, entryID, kind)
	}
}

// CancelForRecord drops every pending notification for the record.
func (s *Service) CancelForRecord(ctx context.Context, entryID uuid.UUID) {
	for _, kind := range AllKinds() {
		s.CancelKind(ctx, entryID, kind)
	}
}

// CancelKind cancels the pending notifications of one family and marks the
// metadata row cancelled. Missing rows and already-fired ids are no-ops.
func (s *Service) CancelKind(ctx context.Context, entryID uuid.UUID, kind Kind) {
	existing, err := s.store.Get(ctx, entryID, kind)
	if err != nil {
		s.logger.Warn("failed to load notification metadata",
			slog.String("entry_id", entryID.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		return
	}
	if existing == nil || existing.Status != StatusScheduled {
		return
	}

	for _, id := range existing.NotificationIDs {
		if _, err := s.notifier.Cancel(ctx, id); err != nil {
			s.logger.Warn("failed to cancel notification",
				slog.String("notification_id", id),
				slog.String("error", err.Error()))
		}
	}

	existing.Status = StatusCancelled
	if err := s.store.Put(ctx, *existing); err != nil {
		s.logger.Warn("failed to persist cancelled notification metadata",
			slog.String("entry_id", entryID.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
}

// RemindLater pushes the deadline family out by one repeat interval from now,
// replacing whatever repeats were still pending.
func (s *Service) RemindLater(ctx context.Context, rec *entry.Record, destinationName string) {
	s.scheduleFamily(ctx, rec, destinationName, KindDeadline,
		[]time.Time{s.clock.Now().Add(s.repeatEvery)},
		fmt.Sprintf("Entry card reminder for %s", destinationName),
		fmt.Sprintf("Reminder: your entry card for %s is still not submitted.", destinationName))
}

// ByEntry exposes the persisted metadata rows for a record.
func (s *Service) ByEntry(ctx context.Context, entryID uuid.UUID) ([]ScheduledNotification, error) {
	return s.store.ByEntry(ctx, entryID)
}

func (s *Service) scheduleFamily(ctx context.Context, rec *entry.Record, destinationName string, kind Kind, fireTimes []time.Time, title, body string) {
	s.CancelKind(ctx, rec.ID(), kind)
	if s.disabledByPreference(ctx, rec, kind) {
		return
	}

	now := s.clock.Now()
	var future []time.Time
	for _, t := range fireTimes {
		if t.After(now) || t.Equal(now) {
			future = append(future, t)
		}
	}
	if len(future) == 0 {
		return
	}

	ids := make([]string, 0, len(future))
	for _, fireAt := range future {
		id, err := s.notifier.Schedule(ctx, Request{
			Title:  title,
			Body:   body,
			FireAt: fireAt,
			Data: map[string]string{
				"entryRecordId": rec.ID().String(),
				"kind":          string(kind),
			},
		})
		if err != nil {
			s.logger.Warn("failed to schedule notification",
				slog.String("entry_id", rec.ID().String()),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()))
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}

	meta := ScheduledNotification{
		Kind:              kind,
		NotificationIDs:   ids,
		UserID:            rec.UserID(),
		EntryPackID:       rec.ID(),
		ArrivalDate:       rec.ArrivalDate(),
		Destination:       destinationName,
		ScheduledAt:       now,
		NotificationTimes: future,
		Status:            StatusScheduled,
	}
	if err := s.store.Put(ctx, meta); err != nil {
		s.logger.Warn("failed to persist notification metadata",
			slog.String("entry_id", rec.ID().String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
}

// disabledByPreference reads the user's opt-outs for the record's
// destination. Preference reads fail open: a broken row must not silence a
// family the user never disabled.
func (s *Service) disabledByPreference(ctx context.Context, rec *entry.Record, kind Kind) bool {
	pref, err := s.prefs.GetPreference(ctx, rec.UserID(), rec.DestinationID())
	if err != nil {
		s.logger.Warn("failed to load notification preference",
			slog.String("user_id", rec.UserID().String()),
			slog.String("destination_id", rec.DestinationID()),
			slog.String("error", err.Error()))
		return false
	}
	return pref != nil && pref.Disabled(kind)
}

// deadlineTimes builds the arrival-day schedule: the base slot plus up to
// maxRepeats follow-ups spaced repeatEvery apart.
func (s *Service) deadlineTimes(arrival time.Time) []time.Time {
	base := time.Date(arrival.Year(), arrival.Month(), arrival.Day(),
		s.deadlineHour, 0, 0, 0, arrival.Location())
	times := make([]time.Time, 0, s.maxRepeats+1)
	times = append(times, base)
	for i := 1; i <= s.maxRepeats; i++ {
		times = append(times, base.Add(time.Duration(i)*s.repeatEvery))
	}
	return times
}
