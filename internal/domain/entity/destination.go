package entity

import "github.com/shopspring/decimal"

// Destination is one row of the watchlist sheet
type Destination struct {
	ID          int             `json:"id"`
	City        string          `json:"city"`
	Country     string          `json:"country,omitempty"`
	IataCode    string          `json:"iataCode"`
	LowestPrice decimal.Decimal `json:"lowestPrice"`
}

// NeedsIata reports whether the airport code still has to be resolved
func (d Destination) NeedsIata() bool {
	return d.IataCode == ""
}
