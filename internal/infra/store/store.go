package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no record exists under (kind, id).
var ErrNotFound = errors.New("record not found")

// Record kinds persisted by the engine. Traveler data kinds match the cache
// data types; snapshot and scheduled-notification rows are engine bookkeeping.
const (
	KindPassport               = "passport"
	KindPersonalInfo           = "personal_info"
	KindFunds                  = "funds"
	KindTravelInfo             = "travel_info"
	KindEntryRecord            = "entry_record"
	KindSnapshot               = "snapshot"
	KindScheduledNotification  = "scheduled_notification"
	KindNotificationPreference = "notification_preference"
)

// Record is the storage envelope: entities serialize themselves into Payload
// and the envelope carries the columns the engine queries by. Records are
// upserted, never physically deleted.
type Record struct {
	Kind          string
	ID            string
	UserID        uuid.UUID
	DestinationID string
	Payload       []byte
	UpdatedAt     time.Time
}

// Store is the Durable Store port. Each call is assumed transactional; the
// engine layers its cache and invalidation discipline on top and never
// requires multi-call transactions.
type Store interface {
	Get(ctx context.Context, kind, id string) (*Record, error)
	Save(ctx context.Context, rec Record) error
	ByUser(ctx context.Context, kind string, userID uuid.UUID) ([]Record, error)
	ByUserAndDestination(ctx context.Context, kind string, userID uuid.UUID, destinationID string) ([]Record, error)
	// Users enumerates every user that owns at least one record of the kind.
	// The background sweeper uses it to walk all entry records.
	Users(ctx context.Context, kind string) ([]uuid.UUID, error)
}
