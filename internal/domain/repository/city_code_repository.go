package repository

import (
	"context"

	"flightdeal-service/internal/domain/entity"
)

// CityCodeRepository resolves a city name to its IATA code
type CityCodeRepository interface {
	LookupIata(ctx context.Context, city, country string) (string, error)
}

// CityCodeCacheRepository stores previously resolved codes
type CityCodeCacheRepository interface {
	Get(ctx context.Context, city, country string) (*entity.CityCode, error)
	Put(ctx context.Context, code entity.CityCode) error
}
