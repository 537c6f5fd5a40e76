package entity

// FlightOffer mirrors one element of the Amadeus flight-offers "data" array.
// Only the fields the deal checker reads are mapped.
type FlightOffer struct {
	ID          string      `json:"id"`
	Source      string      `json:"source,omitempty"`
	Price       OfferPrice  `json:"price"`
	Itineraries []Itinerary `json:"itineraries"`
}

// OfferPrice holds the offer total as the provider sends it (a decimal string)
type OfferPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total,omitempty"`
	GrandTotal string `json:"grandTotal"`
}

// Itinerary is one leg of a round trip
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flight within an itinerary
type Segment struct {
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	CarrierCode  string         `json:"carrierCode,omitempty"`
	Number       string         `json:"number,omitempty"`
	NumberOfStop int            `json:"numberOfStops,omitempty"`
}

// FlightEndpoint is the departure or arrival side of a segment
type FlightEndpoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}
