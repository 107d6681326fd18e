package request

import (
	"time"

	"entrypass-engine/internal/domain/traveler"

	"github.com/google/uuid"
)

// Traveler data requests are partial by design: every field is optional and
// only non-empty values overwrite what is stored.

type PassportRequest struct {
	PassportNumber string `json:"passportNumber"`
	FullName       string `json:"fullName"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"dateOfBirth"`
	Sex            string `json:"sex"`
	ExpiryDate     string `json:"expiryDate"`
	IssuingCountry string `json:"issuingCountry"`
}

func (r PassportRequest) ToDomain(userID uuid.UUID) traveler.Passport {
	return traveler.Passport{
		UserID:         userID,
		PassportNumber: r.PassportNumber,
		FullName:       r.FullName,
		Nationality:    r.Nationality,
		DateOfBirth:    r.DateOfBirth,
		Sex:            r.Sex,
		ExpiryDate:     r.ExpiryDate,
		IssuingCountry: r.IssuingCountry,
	}
}

type PersonalInfoRequest struct {
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Occupation         string `json:"occupation"`
	HomeAddress        string `json:"homeAddress"`
	CityOfResidence    string `json:"cityOfResidence"`
	CountryOfResidence string `json:"countryOfResidence"`
}

func (r PersonalInfoRequest) ToDomain(userID uuid.UUID) traveler.PersonalInfo {
	return traveler.PersonalInfo{
		UserID:             userID,
		Email:              r.Email,
		Phone:              r.Phone,
		Occupation:         r.Occupation,
		HomeAddress:        r.HomeAddress,
		CityOfResidence:    r.CityOfResidence,
		CountryOfResidence: r.CountryOfResidence,
	}
}

type FundItemRequest struct {
	Type     string  `json:"type" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
}

type FundsRequest struct {
	Items []FundItemRequest `json:"items"`
}

func (r FundsRequest) ToDomain(userID uuid.UUID) traveler.Funds {
	items := make([]traveler.FundItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, traveler.FundItem{
			Type:     it.Type,
			Currency: it.Currency,
			Amount:   it.Amount,
		})
	}
	return traveler.Funds{UserID: userID, Items: items}
}

type TravelInfoRequest struct {
	ArrivalDate          *time.Time `json:"arrivalDate,omitempty"`
	FlightNumber         string     `json:"flightNumber"`
	DepartureCountry     string     `json:"departureCountry"`
	AccommodationType    string     `json:"accommodationType"`
	AccommodationAddress string     `json:"accommodationAddress"`
	PurposeOfVisit       string     `json:"purposeOfVisit"`
}

func (r TravelInfoRequest) ToDomain(userID uuid.UUID, destinationID string) traveler.TravelInfo {
	return traveler.TravelInfo{
		UserID:               userID,
		DestinationID:        destinationID,
		ArrivalDate:          r.ArrivalDate,
		FlightNumber:         r.FlightNumber,
		DepartureCountry:     r.DepartureCountry,
		AccommodationType:    r.AccommodationType,
		AccommodationAddress: r.AccommodationAddress,
		PurposeOfVisit:       r.PurposeOfVisit,
	}
}

// NotificationPreferenceRequest replaces the opt-out list wholesale; an empty
// list turns every family back on.
type NotificationPreferenceRequest struct {
	DisabledKinds []string `json:"disabledKinds"`
}
