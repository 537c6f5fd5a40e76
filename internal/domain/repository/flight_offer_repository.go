package repository

import (
	"context"

	"flightdeal-service/internal/domain/entity"
)

// FlightOfferRepository queries the flight-search provider
type FlightOfferRepository interface {
	Search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error)
}
