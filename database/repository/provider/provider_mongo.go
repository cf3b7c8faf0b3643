package providerRepo

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
)

// MongoProviderRepo is the MongoDB-backed ProviderRepository.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo wires the repository against the "providers" collection.
func NewMongoProviderRepo() *MongoProviderRepo {
	return &MongoProviderRepo{coll: database.DB().Collection("providers")}
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	err := r.coll.FindOne(ctxTimeout, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("provider %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching provider %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoProviderRepo) Create(ctx context.Context, p *models.Provider) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	if _, err := r.coll.InsertOne(ctxTimeout, p); err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) Update(ctx context.Context, p *models.Provider) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctxTimeout, bson.M{"id": p.ID}, bson.M{"$set": p})
	if err != nil {
		return fmt.Errorf("updating provider %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("provider %s: %w", p.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoProviderRepo) UpdatePolicy(ctx context.Context, providerID string, policy models.PolicyConfig) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"policy": policy, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctxTimeout, bson.M{"id": providerID}, update)
	if err != nil {
		return fmt.Errorf("updating policy for provider %s: %w", providerID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("provider %s: %w", providerID, repository.ErrNotFound)
	}
	return nil
}
