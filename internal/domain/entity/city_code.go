package entity

import "time"

// CityCode is a resolved city to IATA mapping
type CityCode struct {
	City      string
	Country   string
	IataCode  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
