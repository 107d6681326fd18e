package commands

import (
	"context"
	"encoding/json"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/notify"

	"github.com/google/uuid"
)

// Write-side ports. Declared here so the command layer depends on behavior,
// not on the repository package.

type PassportRepository interface {
	Save(ctx context.Context, userID uuid.UUID, in traveler.Passport) (traveler.Passport, []string, error)
}

type PersonalInfoRepository interface {
	Save(ctx context.Context, userID uuid.UUID, in traveler.PersonalInfo) (traveler.PersonalInfo, []string, error)
}

type FundsRepository interface {
	Save(ctx context.Context, userID uuid.UUID, in traveler.Funds) (traveler.Funds, []string, error)
}

type TravelInfoRepository interface {
	Save(ctx context.Context, userID uuid.UUID, destinationID string, in traveler.TravelInfo) (traveler.TravelInfo, []string, error)
}

type EntryRepository interface {
	Create(ctx context.Context, rec *entry.Record) error
	Save(ctx context.Context, rec *entry.Record) error
	ByID(ctx context.Context, id uuid.UUID) (*entry.Record, error)
	ActiveByUserAndDestination(ctx context.Context, userID uuid.UUID, destinationID string) (*entry.Record, error)
}

type SnapshotRepository interface {
	Save(ctx context.Context, snap *snapshot.Snapshot) error
}

type ProfileSource interface {
	ProfileFor(ctx context.Context, userID uuid.UUID, destinationID string) (traveler.Profile, error)
}

type WarningBoard interface {
	Get(entryInfoID uuid.UUID) (events.ResubmissionWarning, bool)
	Resolve(entryInfoID uuid.UUID) bool
}

// NotificationScheduler is the notify.Service surface the commands drive.
// Its methods absorb their own failures; none of them return errors.
type NotificationScheduler interface {
	ScheduleReminders(ctx context.Context, rec *entry.Record, destinationName string)
	ScheduleSuperseded(ctx context.Context, rec *entry.Record, destinationName string)
	RescheduleForArrivalChange(ctx context.Context, rec *entry.Record, destinationName string)
	CancelReminders(ctx context.Context, entryID uuid.UUID)
	RemindLater(ctx context.Context, rec *entry.Record, destinationName string)
}

type NotificationPreferenceRepository interface {
	GetPreference(ctx context.Context, userID uuid.UUID, destinationID string) (*notify.Preference, error)
	PutPreference(ctx context.Context, p notify.Preference) error
}

// SubmissionGateway is the destination authority's submission endpoint.
type SubmissionGateway interface {
	Submit(ctx context.Context, destinationID string, profile traveler.Profile) (json.RawMessage, error)
}
