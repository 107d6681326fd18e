package entry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrIllegalTransition marks a caller bug: the requested edge does not
	// exist in the lifecycle graph. It is never swallowed downstream.
	ErrIllegalTransition = errors.New("illegal entry record transition")
	ErrMissingReceipt    = errors.New("submission receipt required")
)

// Record tracks one user's preparation/submission cycle for one destination's
// arrival form. At most one Record per (user, destination) is non-archived at
// any time; archived records are kept for history and never deleted.
type Record struct {
	id                   uuid.UUID
	userID               uuid.UUID
	destinationID        string
	status               Status
	arrivalDate          *time.Time
	submittedAt          *time.Time
	supersededAt         *time.Time
	expiredAt            *time.Time
	archivedAt           *time.Time
	submissionReceipt    json.RawMessage
	lastTransitionReason string
	lastChangedFields    []string
	createdAt            time.Time
	updatedAt            time.Time
}

func NewRecord(userID uuid.UUID, destinationID string, arrivalDate *time.Time, now time.Time) *Record {
	return &Record{
		id:            uuid.New(),
		userID:        userID,
		destinationID: destinationID,
		status:        StatusInProgress,
		arrivalDate:   arrivalDate,
		createdAt:     now,
		updatedAt:     now,
	}
}

func Reconstruct(
	id, userID uuid.UUID,
	destinationID string,
	status Status,
	arrivalDate, submittedAt, supersededAt, expiredAt, archivedAt *time.Time,
	submissionReceipt json.RawMessage,
	lastTransitionReason string,
	lastChangedFields []string,
	createdAt, updatedAt time.Time,
) *Record {
	return &Record{
		id:                   id,
		userID:               userID,
		destinationID:        destinationID,
		status:               status,
		arrivalDate:          arrivalDate,
		submittedAt:          submittedAt,
		supersededAt:         supersededAt,
		expiredAt:            expiredAt,
		archivedAt:           archivedAt,
		submissionReceipt:    submissionReceipt,
		lastTransitionReason: lastTransitionReason,
		lastChangedFields:    lastChangedFields,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// Submit moves the record to submitted. Legal from in_progress (first
// submission) and superseded (resubmission cycle). The receipt is the opaque
// payload returned by the external submission client.
func (r *Record) Submit(receipt json.RawMessage, now time.Time) error {
	if r.status != StatusInProgress && r.status != StatusSuperseded {
		return r.illegal(StatusSubmitted)
	}
	if len(receipt) == 0 {
		return ErrMissingReceipt
	}
	r.status = StatusSubmitted
	r.submissionReceipt = receipt
	r.submittedAt = &now
	r.supersededAt = nil
	r.lastTransitionReason = "submission accepted"
	r.lastChangedFields = nil
	r.touch(now)
	return nil
}

// Supersede records that traveler data changed materially after submission.
// Legal only from submitted.
func (r *Record) Supersede(reason string, changedFields []string, now time.Time) error {
	if r.status != StatusSubmitted {
		return r.illegal(StatusSuperseded)
	}
	r.status = StatusSuperseded
	r.supersededAt = &now
	r.lastTransitionReason = reason
	r.lastChangedFields = changedFields
	r.touch(now)
	return nil
}

// Expire marks an unsubmitted record whose arrival window has passed. Legal
// only from in_progress; the sweeper archives it on a later pass.
func (r *Record) Expire(now time.Time) error {
	if r.status != StatusInProgress {
		return r.illegal(StatusExpired)
	}
	r.status = StatusExpired
	r.expiredAt = &now
	r.lastTransitionReason = "arrival window passed without submission"
	r.touch(now)
	return nil
}

// Archive is legal from every non-archived status. Attempting it on an
// already-archived record is a caller bug and fails loudly.
func (r *Record) Archive(reason string, now time.Time) error {
	if r.status.IsArchived() {
		return r.illegal(StatusArchived)
	}
	r.status = StatusArchived
	r.archivedAt = &now
	r.lastTransitionReason = reason
	r.touch(now)
	return nil
}

func (r *Record) SetArrivalDate(d time.Time, now time.Time) {
	r.arrivalDate = &d
	r.touch(now)
}

func (r *Record) illegal(to Status) error {
	return fmt.Errorf("%w: %s -> %s (record %s)", ErrIllegalTransition, r.status, to, r.id)
}

func (r *Record) touch(now time.Time) {
	r.updatedAt = now
}

func (r *Record) ID() uuid.UUID                  { return r.id }
func (r *Record) UserID() uuid.UUID              { return r.userID }
func (r *Record) DestinationID() string          { return r.destinationID }
func (r *Record) Status() Status                 { return r.status }
func (r *Record) ArrivalDate() *time.Time        { return r.arrivalDate }
func (r *Record) SubmittedAt() *time.Time        { return r.submittedAt }
func (r *Record) SupersededAt() *time.Time       { return r.supersededAt }
func (r *Record) ExpiredAt() *time.Time          { return r.expiredAt }
func (r *Record) ArchivedAt() *time.Time         { return r.archivedAt }
func (r *Record) SubmissionReceipt() json.RawMessage { return r.submissionReceipt }
func (r *Record) LastTransitionReason() string   { return r.lastTransitionReason }
func (r *Record) LastChangedFields() []string    { return r.lastChangedFields }
func (r *Record) CreatedAt() time.Time           { return r.createdAt }
func (r *Record) UpdatedAt() time.Time           { return r.updatedAt }

// PastArrivalWindow reports whether now is strictly past arrivalDate + grace.
// Exactly at the boundary the record is still inside the window.
func (r *Record) PastArrivalWindow(now time.Time, grace time.Duration) bool {
	if r.arrivalDate == nil {
		return false
	}
	return now.After(r.arrivalDate.Add(grace))
}
