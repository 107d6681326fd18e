//go:build unit

package traveler_test

import (
	"testing"
	"time"

	"entrypass-engine/internal/domain/traveler"

	"github.com/stretchr/testify/assert"
)

func TestPassportMerge(t *testing.T) {
	stored := traveler.Passport{
		PassportNumber: "AB1234567",
		FullName:       "Taro Yamada",
		Nationality:    "JPN",
	}

	t.Run("empty incoming fields keep stored values", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.Passport{DateOfBirth: "1990-01-15"})

		assert.Equal(t, []string{traveler.FieldDateOfBirth}, changed)
		assert.Equal(t, "AB1234567", merged.PassportNumber)
		assert.Equal(t, "Taro Yamada", merged.FullName)
		assert.Equal(t, "1990-01-15", merged.DateOfBirth)
	})

	t.Run("same value is not a change", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.Passport{PassportNumber: "AB1234567"})

		assert.Empty(t, changed)
		assert.Equal(t, stored, merged)
	})

	t.Run("fully empty write is a no-op", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.Passport{})

		assert.Empty(t, changed)
		assert.Equal(t, stored, merged)
	})

	t.Run("overwrite reports qualified field name", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.Passport{PassportNumber: "XZ9999999"})

		assert.Equal(t, []string{traveler.FieldPassportNumber}, changed)
		assert.Equal(t, "XZ9999999", merged.PassportNumber)
	})
}

func TestFundsMerge(t *testing.T) {
	stored := traveler.Funds{Items: []traveler.FundItem{
		{Type: "cash", Currency: "USD", Amount: 2000},
		{Type: "card", Currency: "EUR", Amount: 500},
	}}

	t.Run("empty list keeps stored items", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.Funds{})

		assert.Empty(t, changed)
		assert.Len(t, merged.Items, 2)
	})

	t.Run("non-empty list replaces wholesale", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.Funds{Items: []traveler.FundItem{
			{Type: "cash", Currency: "JPY", Amount: 100000},
		}})

		assert.Equal(t, []string{traveler.FieldFundItems}, changed)
		assert.Len(t, merged.Items, 1)
		assert.Equal(t, "JPY", merged.Items[0].Currency)
	})

	t.Run("identical list is a no-op", func(t *testing.T) {
		_, changed := stored.Merge(traveler.Funds{Items: []traveler.FundItem{
			{Type: "cash", Currency: "USD", Amount: 2000},
			{Type: "card", Currency: "EUR", Amount: 500},
		}})

		assert.Empty(t, changed)
	})
}

func TestTravelInfoMerge(t *testing.T) {
	june := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	stored := traveler.TravelInfo{
		DestinationID: "JP",
		ArrivalDate:   &june,
		FlightNumber:  "NH105",
	}

	t.Run("nil arrival date keeps stored date", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.TravelInfo{FlightNumber: "NH204"})

		assert.Equal(t, []string{traveler.FieldFlightNumber}, changed)
		assert.Equal(t, june, *merged.ArrivalDate)
	})

	t.Run("new arrival date is reported", func(t *testing.T) {
		merged, changed := stored.Merge(traveler.TravelInfo{ArrivalDate: &july})

		assert.Equal(t, []string{traveler.FieldArrivalDate}, changed)
		assert.Equal(t, july, *merged.ArrivalDate)
	})

	t.Run("equal arrival date is not a change", func(t *testing.T) {
		same := june
		_, changed := stored.Merge(traveler.TravelInfo{ArrivalDate: &same})

		assert.Empty(t, changed)
	})
}

func TestProfileCompleteness(t *testing.T) {
	arrival := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	complete := traveler.Profile{
		Passport: traveler.Passport{
			PassportNumber: "AB1234567", FullName: "Taro Yamada",
			Nationality: "JPN", DateOfBirth: "1990-01-15", ExpiryDate: "2030-01-15",
		},
		PersonalInfo: traveler.PersonalInfo{
			Email: "taro@example.com", Phone: "+81-90-1234-5678", CountryOfResidence: "JPN",
		},
		Funds: traveler.Funds{Items: []traveler.FundItem{{Type: "cash", Currency: "USD", Amount: 100}}},
		TravelInfo: traveler.TravelInfo{
			DestinationID: "JP", ArrivalDate: &arrival,
			FlightNumber: "NH105", AccommodationAddress: "99 Harbor Road",
		},
	}

	assert.True(t, complete.Complete())

	missingFunds := complete
	missingFunds.Funds.Items = nil
	assert.False(t, missingFunds.Complete())

	missingArrival := complete
	missingArrival.TravelInfo.ArrivalDate = nil
	assert.False(t, missingArrival.Complete())
}
