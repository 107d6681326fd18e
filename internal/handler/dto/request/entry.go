package request

import "time"

type CreateEntryRequest struct {
	DestinationID string     `json:"destinationId" binding:"required"`
	ArrivalDate   *time.Time `json:"arrivalDate,omitempty"`
}

type ArrivalDateRequest struct {
	ArrivalDate time.Time `json:"arrivalDate" binding:"required"`
}
