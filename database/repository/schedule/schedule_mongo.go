package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowbook/database"
	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleRepo is the MongoDB-backed ScheduleRepository.
type MongoScheduleRepo struct {
	coll *mongo.Collection
}

func NewMongoScheduleRepo() *MongoScheduleRepo {
	return &MongoScheduleRepo{coll: database.DB().Collection("schedules")}
}

func (r *MongoScheduleRepo) GetByProvider(ctx context.Context, providerID string) (*models.Schedule, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Schedule
	err := r.coll.FindOne(ctxTimeout, bson.M{"provider_id": providerID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("schedule for provider %s: %w", providerID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching schedule for provider %s: %w", providerID, err)
	}
	return &s, nil
}

func (r *MongoScheduleRepo) Upsert(ctx context.Context, s *models.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctxTimeout, bson.M{"provider_id": s.ProviderID}, s, opts); err != nil {
		return fmt.Errorf("upserting schedule for provider %s: %w", s.ProviderID, err)
	}
	return nil
}
