package repository

import (
	"context"

	"entrypass-engine/internal/domain/traveler"

	"github.com/google/uuid"
)

// ProfileReader aggregates the four traveler data categories into the
// Profile the diff calculator and snapshot capture work on.
type ProfileReader struct {
	passports  *PassportRepository
	personal   *PersonalInfoRepository
	funds      *FundsRepository
	travelInfo *TravelInfoRepository
}

func NewProfileReader(
	passports *PassportRepository,
	personal *PersonalInfoRepository,
	funds *FundsRepository,
	travelInfo *TravelInfoRepository,
) *ProfileReader {
	return &ProfileReader{
		passports:  passports,
		personal:   personal,
		funds:      funds,
		travelInfo: travelInfo,
	}
}

func (p *ProfileReader) ProfileFor(ctx context.Context, userID uuid.UUID, destinationID string) (traveler.Profile, error) {
	passport, err := p.passports.Get(ctx, userID)
	if err != nil {
		return traveler.Profile{}, err
	}
	personal, err := p.personal.Get(ctx, userID)
	if err != nil {
		return traveler.Profile{}, err
	}
	funds, err := p.funds.Get(ctx, userID)
	if err != nil {
		return traveler.Profile{}, err
	}
	travelInfo, err := p.travelInfo.Get(ctx, userID, destinationID)
	if err != nil {
		return traveler.Profile{}, err
	}
	return traveler.Profile{
		Passport:     passport,
		PersonalInfo: personal,
		Funds:        funds,
		TravelInfo:   travelInfo,
	}, nil
}
