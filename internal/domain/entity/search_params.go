package entity

import (
	"fmt"
	"time"

	"flightdeal-service/pkg/validation"
)

// DateLayout is the date format the flight provider expects
const DateLayout = "2006-01-02"

// SearchParams describes a single round-trip search attempt
type SearchParams struct {
	OriginIata      string `json:"originIata" validate:"required,len=3,alpha,uppercase"`
	DestinationIata string `json:"destinationIata" validate:"required,len=3,alpha,uppercase"`
	DepartureDate   string `json:"departureDate" validate:"required,datetime=2006-01-02"`
	ReturnDate      string `json:"returnDate" validate:"required,datetime=2006-01-02"`
	Adults          int    `json:"adults" validate:"min=1,max=9"`
	Currency        string `json:"currency" validate:"required,len=3,alpha,uppercase"`
	DirectOnly      bool   `json:"directOnly"`
}

// WithDirectOnly returns a copy of p with DirectOnly set
func (p SearchParams) WithDirectOnly(direct bool) SearchParams {
	p.DirectOnly = direct
	return p
}

// Validate checks the params before they reach the provider
func (p SearchParams) Validate() error {
	if err := validation.Struct(p); err != nil {
		return fmt.Errorf("invalid search params: %w", err)
	}
	return nil
}

// SearchTemplate holds the values shared by every destination search in a run
type SearchTemplate struct {
	OriginIata string
	Adults     int
	Currency   string
	WindowDays int
}

// ForDestination builds direct-only params for iata with the date window
// [tomorrow, today+WindowDays] relative to now.
func (t SearchTemplate) ForDestination(iata string, now time.Time) SearchParams {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return SearchParams{
		OriginIata:      t.OriginIata,
		DestinationIata: iata,
		DepartureDate:   today.AddDate(0, 0, 1).Format(DateLayout),
		ReturnDate:      today.AddDate(0, 0, t.WindowDays).Format(DateLayout),
		Adults:          t.Adults,
		Currency:        t.Currency,
		DirectOnly:      true,
	}
}
