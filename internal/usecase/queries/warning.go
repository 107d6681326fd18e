package queries

import (
	"context"

	"entrypass-engine/internal/events"

	"github.com/google/uuid"
)

type WarningSource interface {
	Get(entryInfoID uuid.UUID) (events.ResubmissionWarning, bool)
	ByUser(userID uuid.UUID) []events.ResubmissionWarning
}

type WarningQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*WarningView, error)
	GetByEntry(ctx context.Context, userID, entryID uuid.UUID) (*WarningView, error)
}

type warningQueriesImpl struct {
	warnings WarningSource
}

func NewWarningQueries(warnings WarningSource) WarningQueries {
	return &warningQueriesImpl{warnings: warnings}
}

func (q *warningQueriesImpl) ListByUser(_ context.Context, userID uuid.UUID) ([]*WarningView, error) {
	warnings := q.warnings.ByUser(userID)
	views := make([]*WarningView, 0, len(warnings))
	for _, w := range warnings {
		views = append(views, newWarningView(w))
	}
	return views, nil
}

func (q *warningQueriesImpl) GetByEntry(_ context.Context, userID, entryID uuid.UUID) (*WarningView, error) {
	w, ok := q.warnings.Get(entryID)
	if !ok || w.UserID != userID {
		return nil, ErrEntryNotFound
	}
	return newWarningView(w), nil
}

func newWarningView(w events.ResubmissionWarning) *WarningView {
	return &WarningView{
		EntryInfoID:                   w.EntryInfoID,
		UserID:                        w.UserID,
		DestinationID:                 w.DestinationID,
		DiffResult:                    w.DiffResult,
		ChangeSummary:                 w.ChangeSummary,
		RequiresImmediateResubmission: w.RequiresImmediateResubmission,
		Timestamp:                     w.Timestamp,
	}
}
