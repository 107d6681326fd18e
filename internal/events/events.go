package events

import (
	"time"

	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/domain/traveler"

	"github.com/google/uuid"
)

type EventType string

const (
	EventDataChanged         EventType = "DATA_CHANGED"
	EventResubmissionWarning EventType = "RESUBMISSION_WARNING"
)

// Event is the closed set of payloads carried by the bus. Subscribers switch
// on the concrete type; the JSON shapes are a contract shared with every
// in-process consumer and must not drift.
type Event interface {
	Kind() EventType
}

// DataChanged fires on every repository write whose merged change list is
// non-empty. No-op writes never produce one.
type DataChanged struct {
	Type          EventType         `json:"type"`
	DataType      traveler.DataType `json:"dataType"`
	UserID        uuid.UUID         `json:"userId"`
	Timestamp     time.Time         `json:"timestamp"`
	ChangedFields []string          `json:"changedFields"`
	DestinationID string            `json:"destinationId,omitempty"`
}

func (DataChanged) Kind() EventType { return EventDataChanged }

func NewDataChanged(dt traveler.DataType, userID uuid.UUID, destinationID string, changedFields []string, now time.Time) DataChanged {
	return DataChanged{
		Type:          EventDataChanged,
		DataType:      dt,
		UserID:        userID,
		Timestamp:     now,
		ChangedFields: changedFields,
		DestinationID: destinationID,
	}
}

// ResubmissionWarning signals that data belonging to a submitted entry record
// has diverged from its submission snapshot.
type ResubmissionWarning struct {
	Type                          EventType        `json:"type"`
	EntryInfoID                   uuid.UUID        `json:"entryInfoId"`
	UserID                        uuid.UUID        `json:"userId"`
	DestinationID                 string           `json:"destinationId"`
	DiffResult                    snapshot.Result  `json:"diffResult"`
	ChangeSummary                 snapshot.Summary `json:"changeSummary"`
	RequiresImmediateResubmission bool             `json:"requiresImmediateResubmission"`
	Timestamp                     time.Time        `json:"timestamp"`
}

func (ResubmissionWarning) Kind() EventType { return EventResubmissionWarning }
