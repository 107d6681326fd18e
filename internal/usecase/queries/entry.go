package queries

import (
	"context"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEntryNotFound = errs.New("entry record not found")
	ErrQueryFailed   = errs.New("entry query failed")
)

type EntryReader interface {
	ByID(ctx context.Context, id uuid.UUID) (*entry.Record, error)
	AllByUser(ctx context.Context, userID uuid.UUID) ([]*entry.Record, error)
	ActiveByUserAndDestination(ctx context.Context, userID uuid.UUID, destinationID string) (*entry.Record, error)
}

type ProfileSource interface {
	ProfileFor(ctx context.Context, userID uuid.UUID, destinationID string) (traveler.Profile, error)
}

type EntryQueries interface {
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*EntryView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*EntryView, error)
	ActiveForDestination(ctx context.Context, userID uuid.UUID, destinationID string) (*EntryView, error)
	Readiness(ctx context.Context, userID uuid.UUID, destinationID string) (*ReadinessView, error)
}

type entryQueriesImpl struct {
	entries  EntryReader
	profiles ProfileSource
}

func NewEntryQueries(entries EntryReader, profiles ProfileSource) EntryQueries {
	return &entryQueriesImpl{entries: entries, profiles: profiles}
}

func (q *entryQueriesImpl) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*EntryView, error) {
	rec, err := q.entries.ByID(ctx, entryID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	if rec.UserID() != userID {
		return nil, ErrEntryNotFound
	}
	return NewEntryView(rec), nil
}

func (q *entryQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*EntryView, error) {
	recs, err := q.entries.AllByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	views := make([]*EntryView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, NewEntryView(rec))
	}
	return views, nil
}

func (q *entryQueriesImpl) ActiveForDestination(ctx context.Context, userID uuid.UUID, destinationID string) (*EntryView, error) {
	rec, err := q.entries.ActiveByUserAndDestination(ctx, userID, destinationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return NewEntryView(rec), nil
}

func (q *entryQueriesImpl) Readiness(ctx context.Context, userID uuid.UUID, destinationID string) (*ReadinessView, error) {
	profile, err := q.profiles.ProfileFor(ctx, userID, destinationID)
	if err != nil {
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return &ReadinessView{
		Ready:        profile.Complete(),
		Passport:     profile.Passport.Complete(),
		PersonalInfo: profile.PersonalInfo.Complete(),
		Funds:        profile.Funds.Complete(),
		TravelInfo:   profile.TravelInfo.Complete(),
	}, nil
}
