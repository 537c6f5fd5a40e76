package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCityCodeRepository implements the CityCodeCacheRepository interface
type GormCityCodeRepository struct {
	db *gorm.DB
}

// NewGormCityCodeRepository creates a new GORM city code repository
func NewGormCityCodeRepository(db *gorm.DB) repository.CityCodeCacheRepository {
	return &GormCityCodeRepository{
		db: db,
	}
}

// CityCodeModel GORM model for database mapping
type CityCodeModel struct {
	ID        uint   `gorm:"primaryKey"`
	City      string `gorm:"column:city;uniqueIndex:idx_city_country"`
	Country   string `gorm:"column:country;uniqueIndex:idx_city_country"`
	IataCode  string `gorm:"column:iata_code;size:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (CityCodeModel) TableName() string {
	return "m_city_codes"
}

// Get finds a cached code by city and country
func (r *GormCityCodeRepository) Get(ctx context.Context, city, country string) (*entity.CityCode, error) {
	var model CityCodeModel
	result := r.db.WithContext(ctx).
		Where("city = ? AND country = ?", cityKey(city), cityKey(country)).
		First(&model)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no cached code for %s", entity.ErrNotFound, city)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.CityCode{
		City:      model.City,
		Country:   model.Country,
		IataCode:  model.IataCode,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// Put creates or refreshes a cached code
func (r *GormCityCodeRepository) Put(ctx context.Context, code entity.CityCode) error {
	model := CityCodeModel{
		City:     cityKey(code.City),
		Country:  cityKey(code.Country),
		IataCode: code.IataCode,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "city"}, {Name: "country"}},
			DoUpdates: clause.AssignmentColumns([]string{"iata_code", "updated_at"}),
		}).
		Create(&model).Error
}

func cityKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CachedCityCodeRepository consults the cache before the upstream lookup and
// stores every fresh result.
type CachedCityCodeRepository struct {
	upstream repository.CityCodeRepository
	cache    repository.CityCodeCacheRepository
	logger   logger.Logger
}

// NewCachedCityCodeRepository wraps upstream with a cache
func NewCachedCityCodeRepository(upstream repository.CityCodeRepository, cache repository.CityCodeCacheRepository, logger logger.Logger) repository.CityCodeRepository {
	return &CachedCityCodeRepository{
		upstream: upstream,
		cache:    cache,
		logger:   logger,
	}
}

// LookupIata returns the cached code when present, otherwise asks upstream
func (r *CachedCityCodeRepository) LookupIata(ctx context.Context, city, country string) (string, error) {
	cached, err := r.cache.Get(ctx, city, country)
	if err == nil && cached.IataCode != "" {
		r.logger.Debug("City code cache hit", "city", city, "iataCode", cached.IataCode)
		return cached.IataCode, nil
	}
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		r.logger.Warn("City code cache read failed", "city", city, "error", err)
	}

	code, err := r.upstream.LookupIata(ctx, city, country)
	if err != nil {
		return "", err
	}

	if err := r.cache.Put(ctx, entity.CityCode{City: city, Country: country, IataCode: code}); err != nil {
		r.logger.Warn("City code cache write failed", "city", city, "error", err)
	}

	return code, nil
}
