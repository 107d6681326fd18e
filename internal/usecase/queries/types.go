package queries

import (
	"encoding/json"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/snapshot"

	"github.com/google/uuid"
)

type EntryView struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"userId"`
	DestinationID        string          `json:"destinationId"`
	Status               string          `json:"status"`
	ArrivalDate          *time.Time      `json:"arrivalDate,omitempty"`
	SubmittedAt          *time.Time      `json:"submittedAt,omitempty"`
	SupersededAt         *time.Time      `json:"supersededAt,omitempty"`
	ExpiredAt            *time.Time      `json:"expiredAt,omitempty"`
	ArchivedAt           *time.Time      `json:"archivedAt,omitempty"`
	SubmissionReceipt    json.RawMessage `json:"submissionReceipt,omitempty"`
	LastTransitionReason string          `json:"lastTransitionReason,omitempty"`
	LastChangedFields    []string        `json:"lastChangedFields,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func NewEntryView(rec *entry.Record) *EntryView {
	return &EntryView{
		ID:                   rec.ID(),
		UserID:               rec.UserID(),
		DestinationID:        rec.DestinationID(),
		Status:               rec.Status().String(),
		ArrivalDate:          rec.ArrivalDate(),
		SubmittedAt:          rec.SubmittedAt(),
		SupersededAt:         rec.SupersededAt(),
		ExpiredAt:            rec.ExpiredAt(),
		ArchivedAt:           rec.ArchivedAt(),
		SubmissionReceipt:    rec.SubmissionReceipt(),
		LastTransitionReason: rec.LastTransitionReason(),
		LastChangedFields:    rec.LastChangedFields(),
		CreatedAt:            rec.CreatedAt(),
		UpdatedAt:            rec.UpdatedAt(),
	}
}

// ReadinessView is the derived "ready for submission" condition, computed on
// read from data completeness. It is never stored as a status.
type ReadinessView struct {
	Ready        bool `json:"ready"`
	Passport     bool `json:"passport"`
	PersonalInfo bool `json:"personalInfo"`
	Funds        bool `json:"funds"`
	TravelInfo   bool `json:"travelInfo"`
}

type WarningView struct {
	EntryInfoID                   uuid.UUID        `json:"entryInfoId"`
	UserID                        uuid.UUID        `json:"userId"`
	DestinationID                 string           `json:"destinationId"`
	DiffResult                    snapshot.Result  `json:"diffResult"`
	ChangeSummary                 snapshot.Summary `json:"changeSummary"`
	RequiresImmediateResubmission bool             `json:"requiresImmediateResubmission"`
	Timestamp                     time.Time        `json:"timestamp"`
}
