package repository

import (
	"context"
	"fmt"
	"time"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dealChecksCollection = "deal_checks"

// MongoDealCheckRepository implements DealCheckRepository
type MongoDealCheckRepository struct {
	collection *mongo.Collection
}

// NewMongoDealCheckRepository creates a new deal check history repository
func NewMongoDealCheckRepository(db *mongo.Database) *MongoDealCheckRepository {
	return &MongoDealCheckRepository{
		collection: db.Collection(dealChecksCollection),
	}
}

var _ repository.DealCheckRepository = (*MongoDealCheckRepository)(nil)

// EnsureIndexes creates the indexes used to browse the history by run and by
// destination.
func (r *MongoDealCheckRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "runId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "iataCode", Value: 1}, {Key: "checkedAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "checkedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32((90 * 24 * time.Hour).Seconds())),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", dealChecksCollection, err)
	}
	return nil
}

// Save inserts a new history record
func (r *MongoDealCheckRepository) Save(ctx context.Context, check *entity.DealCheck) error {
	if check.ID == "" {
		check.ID = primitive.NewObjectID().Hex()
	}
	if check.CheckedAt.IsZero() {
		check.CheckedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, check); err != nil {
		return fmt.Errorf("failed to save deal check for %s: %w", check.City, err)
	}
	return nil
}

