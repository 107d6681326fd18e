package events

import (
	"context"
	"log/slog"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

// Ports the watcher needs from the repository layer. Declared here so the
// dependency arrow points repository -> events (publish) and never back.
type (
	SubmittedRecords interface {
		SubmittedByUser(ctx context.Context, userID uuid.UUID) ([]*entry.Record, error)
	}
	SnapshotSource interface {
		LatestForEntry(ctx context.Context, entryInfoID uuid.UUID) (*snapshot.Snapshot, error)
	}
	ProfileSource interface {
		ProfileFor(ctx context.Context, userID uuid.UUID, destinationID string) (traveler.Profile, error)
	}
)

// ResubmissionWatcher is the engine's startup subscriber to DATA_CHANGED.
// For every submitted record of the writing user it diffs the submission
// snapshot against current data and raises a RESUBMISSION_WARNING when they
// diverge. A missing snapshot means "cannot verify": the watcher fails open
// and only logs.
type ResubmissionWatcher struct {
	bus      *Bus
	board    *WarningBoard
	records  SubmittedRecords
	snaps    SnapshotSource
	profiles ProfileSource
	policy   *snapshot.Policy
	clock    clock.Clock
	logger   *slog.Logger
}

func NewResubmissionWatcher(
	bus *Bus,
	board *WarningBoard,
	records SubmittedRecords,
	snaps SnapshotSource,
	profiles ProfileSource,
	policy *snapshot.Policy,
	clk clock.Clock,
	logger *slog.Logger,
) *ResubmissionWatcher {
	return &ResubmissionWatcher{
		bus:      bus,
		board:    board,
		records:  records,
		snaps:    snaps,
		profiles: profiles,
		policy:   policy,
		clock:    clk,
		logger:   logger,
	}
}

// Start registers the watcher on the bus and returns its unsubscribe handle.
func (w *ResubmissionWatcher) Start() func() {
	return w.bus.Subscribe(EventDataChanged, w.onDataChanged)
}

func (w *ResubmissionWatcher) onDataChanged(ctx context.Context, ev Event) error {
	change, ok := ev.(DataChanged)
	if !ok {
		return nil
	}
	// Entry record writes are lifecycle bookkeeping, not traveler data.
	if change.DataType == traveler.DataEntryRecord {
		return nil
	}

	records, err := w.records.SubmittedByUser(ctx, change.UserID)
	if err != nil {
		return err
	}

	for _, rec := range records {
		w.checkRecord(ctx, rec)
	}
	return nil
}

func (w *ResubmissionWatcher) checkRecord(ctx context.Context, rec *entry.Record) {
	snap, err := w.snaps.LatestForEntry(ctx, rec.ID())
	if err != nil {
		w.logger.Warn("no snapshot for submitted record, cannot verify",
			"entry_id", rec.ID(), "error", err)
		return
	}

	current, err := w.profiles.ProfileFor(ctx, rec.UserID(), rec.DestinationID())
	if err != nil {
		w.logger.Warn("failed to load current traveler data for diff",
			"entry_id", rec.ID(), "error", err)
		return
	}

	result := snapshot.CalculateDiff(w.policy, rec.DestinationID(), snap.Profile, current)
	if !result.HasChanges {
		return
	}

	warning := ResubmissionWarning{
		Type:                          EventResubmissionWarning,
		EntryInfoID:                   rec.ID(),
		UserID:                        rec.UserID(),
		DestinationID:                 rec.DestinationID(),
		DiffResult:                    result,
		ChangeSummary:                 result.Summary,
		RequiresImmediateResubmission: snapshot.RequiresImmediateResubmission(result),
		Timestamp:                     w.clock.Now(),
	}
	w.board.Put(warning)
	w.bus.Publish(ctx, warning)
}
