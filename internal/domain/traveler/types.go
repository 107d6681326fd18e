package traveler

import (
	"time"

	"github.com/google/uuid"
)

// DataType enumerates the traveler data categories the engine tracks. The
// set is closed: cache tables, change events and diff results all key off it.
type DataType string

const (
	DataPassport     DataType = "passport"
	DataPersonalInfo DataType = "personal_info"
	DataFunds        DataType = "funds"
	DataTravelInfo   DataType = "travel_info"
	DataEntryRecord  DataType = "entry_record"
)

func (d DataType) String() string {
	return string(d)
}

func (d DataType) IsValid() bool {
	switch d {
	case DataPassport, DataPersonalInfo, DataFunds, DataTravelInfo, DataEntryRecord:
		return true
	default:
		return false
	}
}

// All lists every traveler-facing data type (entry records excluded; those
// are lifecycle state, not form input).
func All() []DataType {
	return []DataType{DataPassport, DataPersonalInfo, DataFunds, DataTravelInfo}
}

type Passport struct {
	UserID         uuid.UUID `json:"userId"`
	PassportNumber string    `json:"passportNumber"`
	FullName       string    `json:"fullName"`
	Nationality    string    `json:"nationality"`
	DateOfBirth    string    `json:"dateOfBirth"`
	Sex            string    `json:"sex"`
	ExpiryDate     string    `json:"expiryDate"`
	IssuingCountry string    `json:"issuingCountry"`
}

type PersonalInfo struct {
	UserID             uuid.UUID `json:"userId"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Occupation         string    `json:"occupation"`
	HomeAddress        string    `json:"homeAddress"`
	CityOfResidence    string    `json:"cityOfResidence"`
	CountryOfResidence string    `json:"countryOfResidence"`
}

type FundItem struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

type Funds struct {
	UserID uuid.UUID  `json:"userId"`
	Items  []FundItem `json:"items"`
}

type TravelInfo struct {
	UserID               uuid.UUID  `json:"userId"`
	DestinationID        string     `json:"destinationId"`
	ArrivalDate          *time.Time `json:"arrivalDate,omitempty"`
	FlightNumber         string     `json:"flightNumber"`
	DepartureCountry     string     `json:"departureCountry"`
	AccommodationType    string     `json:"accommodationType"`
	AccommodationAddress string     `json:"accommodationAddress"`
	PurposeOfVisit       string     `json:"purposeOfVisit"`
}

// Profile aggregates all traveler data relevant to one destination's form.
// Snapshots copy it wholesale; the diff calculator compares two of them.
type Profile struct {
	Passport     Passport     `json:"passport"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Funds        Funds        `json:"funds"`
	TravelInfo   TravelInfo   `json:"travelInfo"`
}

func (p Passport) Complete() bool {
	return p.PassportNumber != "" && p.FullName != "" && p.Nationality != "" &&
		p.DateOfBirth != "" && p.ExpiryDate != ""
}

func (p PersonalInfo) Complete() bool {
	return p.Email != "" && p.Phone != "" && p.CountryOfResidence != ""
}

func (f Funds) Complete() bool {
	return len(f.Items) > 0
}

func (t TravelInfo) Complete() bool {
	return t.DestinationID != "" && t.ArrivalDate != nil &&
		t.FlightNumber != "" && t.AccommodationAddress != ""
}

// Complete is the derived "ready for submission" condition: every required
// category filled. It is computed, never stored.
func (p Profile) Complete() bool {
	return p.Passport.Complete() && p.PersonalInfo.Complete() &&
		p.Funds.Complete() && p.TravelInfo.Complete()
}
