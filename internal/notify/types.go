package notify

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the notification families the engine schedules.
type Kind string

const (
	KindWindowOpen Kind = "window_open"
	KindUrgent     Kind = "urgent_reminder"
	KindDeadline   Kind = "deadline_warning"
	KindArchival   Kind = "archival"
	KindSuperseded Kind = "superseded"
)

func AllKinds() []Kind {
	return []Kind{KindWindowOpen, KindUrgent, KindDeadline, KindArchival, KindSuperseded}
}

// ReminderKinds are the families cancelled when a record reaches submitted.
func ReminderKinds() []Kind {
	return []Kind{KindWindowOpen, KindUrgent, KindDeadline}
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusSent      Status = "sent"
)

// ScheduledNotification is the persisted metadata row, one per
// (entry record, family). The JSON field names are a stored contract;
// kind is the row's family key and travels with it.
type ScheduledNotification struct {
	Kind              Kind        `json:"kind"`
	NotificationIDs   []string    `json:"notificationIds"`
	UserID            uuid.UUID   `json:"userId"`
	EntryPackID       uuid.UUID   `json:"entryPackId"`
	ArrivalDate       *time.Time  `json:"arrivalDate,omitempty"`
	Destination       string      `json:"destination"`
	ScheduledAt       time.Time   `json:"scheduledAt"`
	NotificationTimes []time.Time `json:"notificationTimes"`
	Status            Status      `json:"status"`
}

// Request is what the engine hands the OS notification layer.
type Request struct {
	Title  string
	Body   string
	FireAt time.Time
	Data   map[string]string
}

type Scheduled struct {
	ID      string
	Request Request
}

// Notifier is the external local-notification primitive. Scheduling and
// cancelling are fallible OS calls; the engine absorbs their failures.
type Notifier interface {
	Schedule(ctx context.Context, req Request) (string, error)
	Cancel(ctx context.Context, id string) (bool, error)
	ListScheduled(ctx context.Context) ([]Scheduled, error)
}

// ScheduleStore persists ScheduledNotification metadata rows.
type ScheduleStore interface {
	Get(ctx context.Context, entryID uuid.UUID, kind Kind) (*ScheduledNotification, error)
	Put(ctx context.Context, n ScheduledNotification) error
	ByEntry(ctx context.Context, entryID uuid.UUID) ([]ScheduledNotification, error)
}

// Preference is a user's per-destination opt-out of notification families.
// No stored row means every family is enabled.
type Preference struct {
	UserID        uuid.UUID `json:"userId"`
	DestinationID string    `json:"destinationId"`
	DisabledKinds []Kind    `json:"disabledKinds"`
}

func (p Preference) Disabled(kind Kind) bool {
	return slices.Contains(p.DisabledKinds, kind)
}

// PreferenceStore persists notification opt-outs. GetPreference returns nil
// when the user never saved a preference for the destination.
type PreferenceStore interface {
	GetPreference(ctx context.Context, userID uuid.UUID, destinationID string) (*Preference, error)
	PutPreference(ctx context.Context, p Preference) error
}
