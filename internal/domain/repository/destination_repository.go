package repository

import (
	"context"

	"flightdeal-service/internal/domain/entity"
)

// DestinationRepository is the spreadsheet-backed watchlist and subscriber store
type DestinationRepository interface {
	ListDestinations(ctx context.Context) ([]entity.Destination, error)
	ListSubscriberEmails(ctx context.Context) ([]string, error)
	WriteIataCode(ctx context.Context, destinationID int, code string) error
}
