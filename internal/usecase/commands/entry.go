package commands

import (
	"context"
	"encoding/json"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/snapshot"
	reqdto "entrypass-engine/internal/handler/dto/request"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEntryNotFound        = errs.New("entry record not found")
	ErrEntryAlreadyActive   = errs.New("active entry record already exists")
	ErrEntryAccessDenied    = errs.New("entry record belongs to another user")
	ErrWarningNotFound      = errs.New("no pending resubmission warning")
	ErrSubmissionRejected   = errs.New("submission not allowed in current status")
	ErrEntryOperationFailed = errs.New("entry record operation failed")
)

// SubmitResult reports a submission attempt. Gateway rejections are an
// expected outcome, not an error: the record stays untouched and the caller
// gets the reason.
type SubmitResult struct {
	Success       bool
	Receipt       json.RawMessage
	FailureReason string
}

type EntryCommands interface {
	CreateEntry(ctx context.Context, userID uuid.UUID, req reqdto.CreateEntryRequest) (*entry.Record, error)
	SetArrivalDate(ctx context.Context, userID, entryID uuid.UUID, req reqdto.ArrivalDateRequest) (*entry.Record, error)
	Submit(ctx context.Context, userID, entryID uuid.UUID) (*SubmitResult, error)
	ResubmitNow(ctx context.Context, userID, entryID uuid.UUID) (*SubmitResult, error)
	AcknowledgeSuperseded(ctx context.Context, userID, entryID uuid.UUID) (*entry.Record, error)
	IgnoreWarning(ctx context.Context, userID, entryID uuid.UUID) error
	RemindLater(ctx context.Context, userID, entryID uuid.UUID) error
}

type entryUseCaseImpl struct {
	entries       EntryRepository
	snapshots     SnapshotRepository
	profiles      ProfileSource
	warnings      WarningBoard
	notifications NotificationScheduler
	gateway       SubmissionGateway
	clock         clock.Clock
}

func NewEntryUseCase(
	entries EntryRepository,
	snapshots SnapshotRepository,
	profiles ProfileSource,
	warnings WarningBoard,
	notifications NotificationScheduler,
	gateway SubmissionGateway,
	clk clock.Clock,
) EntryCommands {
	return &entryUseCaseImpl{
		entries:       entries,
		snapshots:     snapshots,
		profiles:      profiles,
		warnings:      warnings,
		notifications: notifications,
		gateway:       gateway,
		clock:         clk,
	}
}

func (e *entryUseCaseImpl) CreateEntry(ctx context.Context, userID uuid.UUID, req reqdto.CreateEntryRequest) (*entry.Record, error) {
	rec := entry.NewRecord(userID, req.DestinationID, req.ArrivalDate, e.clock.Now())
	if err := e.entries.Create(ctx, rec); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrEntryAlreadyActive
		}
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}

	e.notifications.ScheduleReminders(ctx, rec, rec.DestinationID())
	return rec, nil
}

func (e *entryUseCaseImpl) SetArrivalDate(ctx context.Context, userID, entryID uuid.UUID, req reqdto.ArrivalDateRequest) (*entry.Record, error) {
	rec, err := e.loadOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	rec.SetArrivalDate(req.ArrivalDate, e.clock.Now())
	if err := e.entries.Save(ctx, rec); err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}

	// One entry point for date edits: every family is torn down and the
	// reminder families rebuilt from the new date.
	e.notifications.RescheduleForArrivalChange(ctx, rec, rec.DestinationID())
	return rec, nil
}

func (e *entryUseCaseImpl) Submit(ctx context.Context, userID, entryID uuid.UUID) (*SubmitResult, error) {
	rec, err := e.loadOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if rec.Status() != entry.StatusInProgress && rec.Status() != entry.StatusSuperseded {
		return nil, ErrSubmissionRejected
	}
	return e.submit(ctx, rec)
}

// ResubmitNow acts on a pending warning: the submitted record is first marked
// superseded with the warning's changed fields, then submitted with the
// current data. The warning resolves whether or not the gateway accepts.
func (e *entryUseCaseImpl) ResubmitNow(ctx context.Context, userID, entryID uuid.UUID) (*SubmitResult, error) {
	rec, err := e.loadOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	warning, ok := e.warnings.Get(entryID)
	if !ok {
		return nil, ErrWarningNotFound
	}

	if err := rec.Supersede("traveler data changed after submission", warning.DiffResult.ChangedFields, e.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrSubmissionRejected)
	}
	if err := e.entries.Save(ctx, rec); err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}
	e.warnings.Resolve(entryID)

	return e.submit(ctx, rec)
}

// AcknowledgeSuperseded marks the record superseded without resubmitting,
// for users who want to finish editing first. The user gets an immediate
// notice that the submitted data is now stale; the reminder schedule stays
// as it was, since the arrival date did not move.
func (e *entryUseCaseImpl) AcknowledgeSuperseded(ctx context.Context, userID, entryID uuid.UUID) (*entry.Record, error) {
	rec, err := e.loadOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	warning, ok := e.warnings.Get(entryID)
	if !ok {
		return nil, ErrWarningNotFound
	}

	if err := rec.Supersede("traveler data changed after submission", warning.DiffResult.ChangedFields, e.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrSubmissionRejected)
	}
	if err := e.entries.Save(ctx, rec); err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}
	e.warnings.Resolve(entryID)
	e.notifications.ScheduleSuperseded(ctx, rec, rec.DestinationID())
	return rec, nil
}

func (e *entryUseCaseImpl) IgnoreWarning(_ context.Context, userID, entryID uuid.UUID) error {
	warning, ok := e.warnings.Get(entryID)
	if !ok {
		return ErrWarningNotFound
	}
	if warning.UserID != userID {
		return ErrEntryAccessDenied
	}
	e.warnings.Resolve(entryID)
	return nil
}

func (e *entryUseCaseImpl) RemindLater(ctx context.Context, userID, entryID uuid.UUID) error {
	rec, err := e.loadOwned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	e.notifications.RemindLater(ctx, rec, rec.DestinationID())
	return nil
}

// submit runs the shared submission tail: gateway call, transition, save,
// snapshot, reminder teardown. The snapshot is the diff baseline for the
// whole submitted phase, so a snapshot write failure fails the submission.
func (e *entryUseCaseImpl) submit(ctx context.Context, rec *entry.Record) (*SubmitResult, error) {
	profile, err := e.profiles.ProfileFor(ctx, rec.UserID(), rec.DestinationID())
	if err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}

	receipt, err := e.gateway.Submit(ctx, rec.DestinationID(), profile)
	if err != nil {
		return &SubmitResult{Success: false, FailureReason: err.Error()}, nil
	}

	now := e.clock.Now()
	if err := rec.Submit(receipt, now); err != nil {
		return nil, errs.Mark(err, ErrSubmissionRejected)
	}
	if err := e.entries.Save(ctx, rec); err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}

	snap, err := snapshot.Capture(rec.ID(), rec.UserID(), profile, now)
	if err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}
	if err := e.snapshots.Save(ctx, snap); err != nil {
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}

	e.notifications.CancelReminders(ctx, rec.ID())
	return &SubmitResult{Success: true, Receipt: receipt}, nil
}

func (e *entryUseCaseImpl) loadOwned(ctx context.Context, userID, entryID uuid.UUID) (*entry.Record, error) {
	rec, err := e.entries.ByID(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, errs.Mark(err, ErrEntryOperationFailed)
	}
	if rec.UserID() != userID {
		return nil, ErrEntryAccessDenied
	}
	return rec, nil
}
