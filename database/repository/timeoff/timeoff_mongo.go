package timeoffRepo

import (
	"context"
	"fmt"
	"time"

	"glowbook/database"
	"glowbook/database/repository"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTimeOffRepo is the MongoDB-backed TimeOffRepository.
type MongoTimeOffRepo struct {
	coll *mongo.Collection
}

func NewMongoTimeOffRepo() *MongoTimeOffRepo {
	return &MongoTimeOffRepo{coll: database.DB().Collection("time_off")}
}

func (r *MongoTimeOffRepo) Create(ctx context.Context, t *models.TimeOff) error {
	if err := t.Validate(); err != nil {
		return err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	t.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctxTimeout, t); err != nil {
		return fmt.Errorf("creating time off: %w", err)
	}
	return nil
}

func (r *MongoTimeOffRepo) Delete(ctx context.Context, providerID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctxTimeout, bson.M{"id": id, "provider_id": providerID})
	if err != nil {
		return fmt.Errorf("deleting time off %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("time off %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoTimeOffRepo) ListCovering(ctx context.Context, providerID, date string) ([]models.TimeOff, error) {
	filter := bson.M{
		"provider_id": providerID,
		"start_date":  bson.M{"$lte": date},
		"end_date":    bson.M{"$gte": date},
	}
	return r.list(ctx, filter)
}

func (r *MongoTimeOffRepo) ListFrom(ctx context.Context, providerID, date string) ([]models.TimeOff, error) {
	filter := bson.M{
		"provider_id": providerID,
		"end_date":    bson.M{"$gte": date},
	}
	return r.list(ctx, filter)
}

func (r *MongoTimeOffRepo) list(ctx context.Context, filter bson.M) ([]models.TimeOff, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cur, err := r.coll.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing time off: %w", err)
	}
	defer cur.Close(ctxTimeout)

	var out []models.TimeOff
	if err := cur.All(ctxTimeout, &out); err != nil {
		return nil, fmt.Errorf("decoding time off: %w", err)
	}
	return out, nil
}
