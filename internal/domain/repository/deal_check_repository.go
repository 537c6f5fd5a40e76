package repository

import (
	"context"

	"flightdeal-service/internal/domain/entity"
)

// DealCheckRepository keeps the history of evaluated destinations
type DealCheckRepository interface {
	Save(ctx context.Context, check *entity.DealCheck) error
}
