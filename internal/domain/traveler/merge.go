package traveler

import (
	"time"

	"entrypass-engine/internal/pkg/patch"
)

// Qualified field names reported in change events and diff results. The
// resubmission allow-list (significant fields) references these names, so
// they are part of the engine's contract, not display strings.
const (
	FieldPassportNumber       = "passport.passportNumber"
	FieldFullName             = "passport.fullName"
	FieldNationality          = "passport.nationality"
	FieldDateOfBirth          = "passport.dateOfBirth"
	FieldSex                  = "passport.sex"
	FieldExpiryDate           = "passport.expiryDate"
	FieldIssuingCountry       = "passport.issuingCountry"
	FieldEmail                = "personalInfo.email"
	FieldPhone                = "personalInfo.phone"
	FieldOccupation           = "personalInfo.occupation"
	FieldHomeAddress          = "personalInfo.homeAddress"
	FieldCityOfResidence      = "personalInfo.cityOfResidence"
	FieldCountryOfResidence   = "personalInfo.countryOfResidence"
	FieldFundItems            = "funds.items"
	FieldArrivalDate          = "travelInfo.arrivalDate"
	FieldFlightNumber         = "travelInfo.flightNumber"
	FieldDepartureCountry     = "travelInfo.departureCountry"
	FieldAccommodationType    = "travelInfo.accommodationType"
	FieldAccommodationAddress = "travelInfo.accommodationAddress"
	FieldPurposeOfVisit       = "travelInfo.purposeOfVisit"
)

// Merge folds non-empty incoming fields into p. Empty incoming fields keep
// the stored value, so a half-filled form screen can be saved without
// clobbering earlier screens. The returned list names only fields whose
// stored value actually changed; an empty list means the write is a no-op.
func (p Passport) Merge(in Passport) (Passport, []string) {
	var changed []string
	merge := func(dst *string, src string, field string) {
		v, ok := patch.Override(*dst, src)
		if ok {
			*dst = v
			changed = append(changed, field)
		}
	}
	merge(&p.PassportNumber, in.PassportNumber, FieldPassportNumber)
	merge(&p.FullName, in.FullName, FieldFullName)
	merge(&p.Nationality, in.Nationality, FieldNationality)
	merge(&p.DateOfBirth, in.DateOfBirth, FieldDateOfBirth)
	merge(&p.Sex, in.Sex, FieldSex)
	merge(&p.ExpiryDate, in.ExpiryDate, FieldExpiryDate)
	merge(&p.IssuingCountry, in.IssuingCountry, FieldIssuingCountry)
	return p, changed
}

func (p PersonalInfo) Merge(in PersonalInfo) (PersonalInfo, []string) {
	var changed []string
	merge := func(dst *string, src string, field string) {
		v, ok := patch.Override(*dst, src)
		if ok {
			*dst = v
			changed = append(changed, field)
		}
	}
	merge(&p.Email, in.Email, FieldEmail)
	merge(&p.Phone, in.Phone, FieldPhone)
	merge(&p.Occupation, in.Occupation, FieldOccupation)
	merge(&p.HomeAddress, in.HomeAddress, FieldHomeAddress)
	merge(&p.CityOfResidence, in.CityOfResidence, FieldCityOfResidence)
	merge(&p.CountryOfResidence, in.CountryOfResidence, FieldCountryOfResidence)
	return p, changed
}

// Funds are replaced as a whole list: the funds screen always posts the full
// set, and item-level merging would resurrect deleted rows.
func (f Funds) Merge(in Funds) (Funds, []string) {
	if len(in.Items) == 0 {
		return f, nil
	}
	if fundItemsEqual(f.Items, in.Items) {
		return f, nil
	}
	f.Items = in.Items
	return f, []string{FieldFundItems}
}

func (t TravelInfo) Merge(in TravelInfo) (TravelInfo, []string) {
	var changed []string
	merge := func(dst *string, src string, field string) {
		v, ok := patch.Override(*dst, src)
		if ok {
			*dst = v
			changed = append(changed, field)
		}
	}
	merge(&t.FlightNumber, in.FlightNumber, FieldFlightNumber)
	merge(&t.DepartureCountry, in.DepartureCountry, FieldDepartureCountry)
	merge(&t.AccommodationType, in.AccommodationType, FieldAccommodationType)
	merge(&t.AccommodationAddress, in.AccommodationAddress, FieldAccommodationAddress)
	merge(&t.PurposeOfVisit, in.PurposeOfVisit, FieldPurposeOfVisit)

	if d, ok := patch.OverridePtr(t.ArrivalDate, in.ArrivalDate); ok {
		t.ArrivalDate = d
		changed = append(changed, FieldArrivalDate)
	}
	return t, changed
}

// CompareFields reports the qualified names of every field that differs
// between two values of the same category. The diff calculator builds its
// structured result from these lists.
func (p Passport) CompareFields(other Passport) []string {
	var diff []string
	cmp := func(a, b string, field string) {
		if a != b {
			diff = append(diff, field)
		}
	}
	cmp(p.PassportNumber, other.PassportNumber, FieldPassportNumber)
	cmp(p.FullName, other.FullName, FieldFullName)
	cmp(p.Nationality, other.Nationality, FieldNationality)
	cmp(p.DateOfBirth, other.DateOfBirth, FieldDateOfBirth)
	cmp(p.Sex, other.Sex, FieldSex)
	cmp(p.ExpiryDate, other.ExpiryDate, FieldExpiryDate)
	cmp(p.IssuingCountry, other.IssuingCountry, FieldIssuingCountry)
	return diff
}

func (p PersonalInfo) CompareFields(other PersonalInfo) []string {
	var diff []string
	cmp := func(a, b string, field string) {
		if a != b {
			diff = append(diff, field)
		}
	}
	cmp(p.Email, other.Email, FieldEmail)
	cmp(p.Phone, other.Phone, FieldPhone)
	cmp(p.Occupation, other.Occupation, FieldOccupation)
	cmp(p.HomeAddress, other.HomeAddress, FieldHomeAddress)
	cmp(p.CityOfResidence, other.CityOfResidence, FieldCityOfResidence)
	cmp(p.CountryOfResidence, other.CountryOfResidence, FieldCountryOfResidence)
	return diff
}

func (f Funds) CompareFields(other Funds) []string {
	if fundItemsEqual(f.Items, other.Items) {
		return nil
	}
	return []string{FieldFundItems}
}

func (t TravelInfo) CompareFields(other TravelInfo) []string {
	var diff []string
	cmp := func(a, b string, field string) {
		if a != b {
			diff = append(diff, field)
		}
	}
	cmp(t.FlightNumber, other.FlightNumber, FieldFlightNumber)
	cmp(t.DepartureCountry, other.DepartureCountry, FieldDepartureCountry)
	cmp(t.AccommodationType, other.AccommodationType, FieldAccommodationType)
	cmp(t.AccommodationAddress, other.AccommodationAddress, FieldAccommodationAddress)
	cmp(t.PurposeOfVisit, other.PurposeOfVisit, FieldPurposeOfVisit)
	if !timePtrEqual(t.ArrivalDate, other.ArrivalDate) {
		diff = append(diff, FieldArrivalDate)
	}
	return diff
}

func fundItemsEqual(a, b []FundItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
