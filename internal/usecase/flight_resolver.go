package usecase

import (
	"context"
	"fmt"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/pkg/logger"
)

// FlightResolver finds round-trip offers, preferring direct flights
type FlightResolver struct {
	flightRepo repository.FlightOfferRepository
	logger     logger.Logger
}

// NewFlightResolver creates a new flight resolver
func NewFlightResolver(flightRepo repository.FlightOfferRepository, logger logger.Logger) *FlightResolver {
	return &FlightResolver{
		flightRepo: flightRepo,
		logger:     logger,
	}
}

// Resolve searches direct flights first and, only when none exist, searches
// once more with stops allowed. A provider failure on either attempt ends the
// search with an empty result and the error.
func (r *FlightResolver) Resolve(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var offers []entity.FlightOffer
	for _, direct := range []bool{true, false} {
		attempt := params.WithDirectOnly(direct)

		found, err := r.flightRepo.Search(ctx, attempt)
		if err != nil {
			r.logger.Error("Flight search failed",
				"origin", attempt.OriginIata,
				"destination", attempt.DestinationIata,
				"directOnly", direct,
				"error", err)
			return []entity.FlightOffer{}, fmt.Errorf("search %s-%s (directOnly=%t): %w", attempt.OriginIata, attempt.DestinationIata, direct, err)
		}

		offers = found
		if len(offers) > 0 {
			break
		}

		if direct {
			r.logger.Info("No direct flights found, searching with stops",
				"origin", attempt.OriginIata,
				"destination", attempt.DestinationIata)
		}
	}

	if offers == nil {
		offers = []entity.FlightOffer{}
	}
	return offers, nil
}
