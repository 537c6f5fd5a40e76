package entity

// NotAvailable marks every field of a CheapestFlight when no flight was found
const NotAvailable = "N/A"

// CheapestFlight is the normalized view of the lowest priced offer
type CheapestFlight struct {
	Price              string
	OriginAirport      string
	DestinationAirport string
	OutDate            string
	ReturnDate         string
	Currency           string
	Stops              int
}

// NoFlight returns the sentinel result used when no valid flight exists
func NoFlight() CheapestFlight {
	return CheapestFlight{
		Price:              NotAvailable,
		OriginAirport:      NotAvailable,
		DestinationAirport: NotAvailable,
		OutDate:            NotAvailable,
		ReturnDate:         NotAvailable,
		Currency:           NotAvailable,
	}
}

// Found reports whether the result carries a real price
func (c CheapestFlight) Found() bool {
	return c.Price != "" && c.Price != NotAvailable
}
