package usecase

import (
	"fmt"
	"strings"

	"flightdeal-service/internal/domain/entity"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbolPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatDealMessage renders the alert text sent to subscribers
func FormatDealMessage(flight entity.CheapestFlight) string {
	return fmt.Sprintf(
		"Low price alert! Only %s%s to fly from %s to %s, %s, departing on %s and returning on %s.",
		CurrencySymbol(flight.Currency),
		flight.Price,
		flight.OriginAirport,
		flight.DestinationAirport,
		StopsPhrase(flight.Stops),
		DateOnly(flight.OutDate),
		DateOnly(flight.ReturnDate),
	)
}

// CurrencySymbol returns the en-US symbol for an ISO 4217 code, or the code
// followed by a space when the code is unknown.
func CurrencySymbol(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " "
	}
	return symbolPrinter.Sprint(currency.Symbol(unit))
}

// StopsPhrase describes the number of outbound stops
func StopsPhrase(stops int) string {
	if stops > 0 {
		return fmt.Sprintf("with %d stop(s)", stops)
	}
	return "non-stop"
}

// DateOnly truncates an ISO timestamp at its date/time separator
func DateOnly(timestamp string) string {
	date, _, _ := strings.Cut(timestamp, "T")
	return date
}
