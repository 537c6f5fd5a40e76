package usecase

import "flightdeal-service/internal/domain/entity"

func segment(from, at string) entity.Segment {
	return entity.Segment{
		Departure: entity.FlightEndpoint{IataCode: from, At: at},
	}
}

func roundTrip(price, currency string, outbound, inbound []entity.Segment) entity.FlightOffer {
	return entity.FlightOffer{
		Price: entity.OfferPrice{GrandTotal: price, Currency: currency},
		Itineraries: []entity.Itinerary{
			{Segments: outbound},
			{Segments: inbound},
		},
	}
}
