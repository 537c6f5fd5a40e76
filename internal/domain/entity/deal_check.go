package entity

import "time"

// Deal check outcomes
const (
	CheckNotified       = "NOTIFIED"
	CheckNotifyFailed   = "NOTIFY_FAILED"
	CheckAboveThreshold = "ABOVE_THRESHOLD"
	CheckNoFlights      = "NO_FLIGHTS"
	CheckSearchFailed   = "SEARCH_FAILED"
	CheckMissingIata    = "MISSING_IATA"
	CheckNoSubscribers  = "NO_SUBSCRIBERS"
)

// DealCheck is the history entry written for every evaluated destination
type DealCheck struct {
	ID            string    `bson:"_id,omitempty"`
	RunID         string    `bson:"runId"`
	DestinationID int       `bson:"destinationId"`
	City          string    `bson:"city"`
	IataCode      string    `bson:"iataCode"`
	Status        string    `bson:"status"`
	Price         string    `bson:"price,omitempty"`
	Currency      string    `bson:"currency,omitempty"`
	Threshold     string    `bson:"threshold"`
	Stops         int       `bson:"stops"`
	OutDate       string    `bson:"outDate,omitempty"`
	ReturnDate    string    `bson:"returnDate,omitempty"`
	Recipients    int       `bson:"recipients"`
	ErrorDetail   string    `bson:"errorDetail,omitempty"`
	CheckedAt     time.Time `bson:"checkedAt"`
}
