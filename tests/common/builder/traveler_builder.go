//go:build unit || e2e

package builder

import (
	"time"

	"entrypass-engine/internal/domain/traveler"

	"github.com/google/uuid"
)

type ProfileBuilder struct {
	UserID        uuid.UUID
	DestinationID string
	ArrivalDate   time.Time
}

func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{
		UserID:        uuid.New(),
		DestinationID: "JP",
		ArrivalDate:   time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (b *ProfileBuilder) With(mutate func(*ProfileBuilder)) *ProfileBuilder {
	mutate(b)
	return b
}

// BuildComplete returns a profile that passes every completeness check.
func (b *ProfileBuilder) BuildComplete() traveler.Profile {
	arrival := b.ArrivalDate
	return traveler.Profile{
		Passport: traveler.Passport{
			UserID:         b.UserID,
			PassportNumber: "AB1234567",
			FullName:       "Taro Yamada",
			Nationality:    "JPN",
			DateOfBirth:    "1990-01-15",
			Sex:            "M",
			ExpiryDate:     "2030-01-15",
			IssuingCountry: "JPN",
		},
		PersonalInfo: traveler.PersonalInfo{
			UserID:             b.UserID,
			Email:              "taro@example.com",
			Phone:              "+81-90-1234-5678",
			Occupation:         "Engineer",
			HomeAddress:        "1-2-3 Shibuya",
			CityOfResidence:    "Tokyo",
			CountryOfResidence: "JPN",
		},
		Funds: traveler.Funds{
			UserID: b.UserID,
			Items: []traveler.FundItem{
				{Type: "cash", Currency: "USD", Amount: 2000},
			},
		},
		TravelInfo: traveler.TravelInfo{
			UserID:               b.UserID,
			DestinationID:        b.DestinationID,
			ArrivalDate:          &arrival,
			FlightNumber:         "NH105",
			DepartureCountry:     "JPN",
			AccommodationType:    "hotel",
			AccommodationAddress: "99 Harbor Road",
			PurposeOfVisit:       "tourism",
		},
	}
}
