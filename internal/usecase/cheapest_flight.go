package usecase

import (
	"fmt"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// SelectCheapestFlight returns the lowest priced offer in normalized form.
// Offers whose fields cannot be extracted are logged and skipped. Ties keep
// the offer seen first. An empty or fully malformed list yields NoFlight().
func SelectCheapestFlight(offers []entity.FlightOffer, log logger.Logger) entity.CheapestFlight {
	cheapest := entity.NoFlight()
	if len(offers) == 0 {
		return cheapest
	}

	var (
		best  decimal.Decimal
		found bool
	)

	for i, offer := range offers {
		candidate, price, err := extractCheapestFlight(offer)
		if err != nil {
			log.Warn("Skipping flight offer", "index", i, "offerID", offer.ID, "error", err)
			continue
		}

		if !found || price.LessThan(best) {
			cheapest = candidate
			best = price
			found = true
		}
	}

	return cheapest
}

// extractCheapestFlight reads the fields a deal alert needs. The destination
// airport is the departure code of the return itinerary's first segment.
func extractCheapestFlight(offer entity.FlightOffer) (entity.CheapestFlight, decimal.Decimal, error) {
	if offer.Price.GrandTotal == "" {
		return entity.CheapestFlight{}, decimal.Zero, fmt.Errorf("%w: missing price.grandTotal", entity.ErrDataShape)
	}
	price, err := decimal.NewFromString(offer.Price.GrandTotal)
	if err != nil {
		return entity.CheapestFlight{}, decimal.Zero, fmt.Errorf("%w: price.grandTotal %q: %v", entity.ErrDataShape, offer.Price.GrandTotal, err)
	}
	if offer.Price.Currency == "" {
		return entity.CheapestFlight{}, decimal.Zero, fmt.Errorf("%w: missing price.currency", entity.ErrDataShape)
	}
	if len(offer.Itineraries) < 2 {
		return entity.CheapestFlight{}, decimal.Zero, fmt.Errorf("%w: expected 2 itineraries, got %d", entity.ErrDataShape, len(offer.Itineraries))
	}

	outbound, err := firstSegment(offer.Itineraries[0], "outbound")
	if err != nil {
		return entity.CheapestFlight{}, decimal.Zero, err
	}
	inbound, err := firstSegment(offer.Itineraries[1], "return")
	if err != nil {
		return entity.CheapestFlight{}, decimal.Zero, err
	}

	return entity.CheapestFlight{
		Price:              offer.Price.GrandTotal,
		OriginAirport:      outbound.Departure.IataCode,
		DestinationAirport: inbound.Departure.IataCode,
		OutDate:            outbound.Departure.At,
		ReturnDate:         inbound.Departure.At,
		Currency:           offer.Price.Currency,
		Stops:              len(offer.Itineraries[0].Segments) - 1,
	}, price, nil
}

func firstSegment(it entity.Itinerary, leg string) (entity.Segment, error) {
	if len(it.Segments) == 0 {
		return entity.Segment{}, fmt.Errorf("%w: %s itinerary has no segments", entity.ErrDataShape, leg)
	}
	seg := it.Segments[0]
	if seg.Departure.IataCode == "" || seg.Departure.At == "" {
		return entity.Segment{}, fmt.Errorf("%w: %s segment missing departure iataCode or time", entity.ErrDataShape, leg)
	}
	return seg, nil
}
