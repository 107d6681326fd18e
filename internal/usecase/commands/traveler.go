package commands

import (
	"context"
	"slices"
	"time"

	"entrypass-engine/internal/domain/traveler"
	reqdto "entrypass-engine/internal/handler/dto/request"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/notify"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTravelerDataSaveFailed  = errs.New("failed to save traveler data")
	ErrUnknownNotificationKind = errs.New("unknown notification kind")
	ErrPreferenceSaveFailed    = errs.New("failed to save notification preference")
)

// SaveOutcome reports a merge-write: the merged value already reflects the
// write, and ChangedFields is empty when the write was a no-op.
type SaveOutcome[T any] struct {
	Merged        T
	ChangedFields []string
}

type TravelerCommands interface {
	SavePassport(ctx context.Context, userID uuid.UUID, req reqdto.PassportRequest) (*SaveOutcome[traveler.Passport], error)
	SavePersonalInfo(ctx context.Context, userID uuid.UUID, req reqdto.PersonalInfoRequest) (*SaveOutcome[traveler.PersonalInfo], error)
	SaveFunds(ctx context.Context, userID uuid.UUID, req reqdto.FundsRequest) (*SaveOutcome[traveler.Funds], error)
	SaveTravelInfo(ctx context.Context, userID uuid.UUID, destinationID string, req reqdto.TravelInfoRequest) (*SaveOutcome[traveler.TravelInfo], error)
	SaveNotificationPreference(ctx context.Context, userID uuid.UUID, destinationID string, req reqdto.NotificationPreferenceRequest) (*notify.Preference, error)
}

type travelerUseCaseImpl struct {
	passports     PassportRepository
	personal      PersonalInfoRepository
	funds         FundsRepository
	travelInfo    TravelInfoRepository
	prefs         NotificationPreferenceRepository
	entries       EntryRepository
	notifications NotificationScheduler
	clock         clock.Clock
}

func NewTravelerUseCase(
	passports PassportRepository,
	personal PersonalInfoRepository,
	funds FundsRepository,
	travelInfo TravelInfoRepository,
	prefs NotificationPreferenceRepository,
	entries EntryRepository,
	notifications NotificationScheduler,
	clk clock.Clock,
) TravelerCommands {
	return &travelerUseCaseImpl{
		passports:     passports,
		personal:      personal,
		funds:         funds,
		travelInfo:    travelInfo,
		prefs:         prefs,
		entries:       entries,
		notifications: notifications,
		clock:         clk,
	}
}

func (t *travelerUseCaseImpl) SavePassport(ctx context.Context, userID uuid.UUID, req reqdto.PassportRequest) (*SaveOutcome[traveler.Passport], error) {
	merged, changed, err := t.passports.Save(ctx, userID, req.ToDomain(userID))
	if err != nil {
		return nil, errs.Mark(err, ErrTravelerDataSaveFailed)
	}
	return &SaveOutcome[traveler.Passport]{Merged: merged, ChangedFields: changed}, nil
}

func (t *travelerUseCaseImpl) SavePersonalInfo(ctx context.Context, userID uuid.UUID, req reqdto.PersonalInfoRequest) (*SaveOutcome[traveler.PersonalInfo], error) {
	merged, changed, err := t.personal.Save(ctx, userID, req.ToDomain(userID))
	if err != nil {
		return nil, errs.Mark(err, ErrTravelerDataSaveFailed)
	}
	return &SaveOutcome[traveler.PersonalInfo]{Merged: merged, ChangedFields: changed}, nil
}

func (t *travelerUseCaseImpl) SaveFunds(ctx context.Context, userID uuid.UUID, req reqdto.FundsRequest) (*SaveOutcome[traveler.Funds], error) {
	merged, changed, err := t.funds.Save(ctx, userID, req.ToDomain(userID))
	if err != nil {
		return nil, errs.Mark(err, ErrTravelerDataSaveFailed)
	}
	return &SaveOutcome[traveler.Funds]{Merged: merged, ChangedFields: changed}, nil
}

func (t *travelerUseCaseImpl) SaveTravelInfo(ctx context.Context, userID uuid.UUID, destinationID string, req reqdto.TravelInfoRequest) (*SaveOutcome[traveler.TravelInfo], error) {
	merged, changed, err := t.travelInfo.Save(ctx, userID, destinationID, req.ToDomain(userID, destinationID))
	if err != nil {
		return nil, errs.Mark(err, ErrTravelerDataSaveFailed)
	}

	if slices.Contains(changed, traveler.FieldArrivalDate) && merged.ArrivalDate != nil {
		if err := t.syncArrivalDate(ctx, userID, destinationID, *merged.ArrivalDate); err != nil {
			return nil, err
		}
	}
	return &SaveOutcome[traveler.TravelInfo]{Merged: merged, ChangedFields: changed}, nil
}

// syncArrivalDate keeps the active entry record and its notification schedule
// in line with a travel-info arrival date edit. Date edits all flow through
// RescheduleForArrivalChange, whichever surface the edit came in on. No active
// record means there is nothing to keep in sync.
func (t *travelerUseCaseImpl) syncArrivalDate(ctx context.Context, userID uuid.UUID, destinationID string, d time.Time) error {
	rec, err := t.entries.ActiveByUserAndDestination(ctx, userID, destinationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Mark(err, ErrTravelerDataSaveFailed)
	}

	rec.SetArrivalDate(d, t.clock.Now())
	if err := t.entries.Save(ctx, rec); err != nil {
		return errs.Mark(err, ErrTravelerDataSaveFailed)
	}
	t.notifications.RescheduleForArrivalChange(ctx, rec, rec.DestinationID())
	return nil
}

// SaveNotificationPreference replaces the user's opt-out list for one
// destination. An empty list re-enables every family.
func (t *travelerUseCaseImpl) SaveNotificationPreference(ctx context.Context, userID uuid.UUID, destinationID string, req reqdto.NotificationPreferenceRequest) (*notify.Preference, error) {
	kinds := make([]notify.Kind, 0, len(req.DisabledKinds))
	for _, k := range req.DisabledKinds {
		kind := notify.Kind(k)
		if !validNotificationKind(kind) {
			return nil, errs.Mark(errs.Newf("unknown notification kind: %s", k), ErrUnknownNotificationKind)
		}
		kinds = append(kinds, kind)
	}

	pref := notify.Preference{
		UserID:        userID,
		DestinationID: destinationID,
		DisabledKinds: kinds,
	}
	if err := t.prefs.PutPreference(ctx, pref); err != nil {
		return nil, errs.Mark(err, ErrPreferenceSaveFailed)
	}
	return &pref, nil
}

func validNotificationKind(kind notify.Kind) bool {
	for _, k := range notify.AllKinds() {
		if k == kind {
			return true
		}
	}
	return false
}
