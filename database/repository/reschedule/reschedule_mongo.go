package rescheduleRepo

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

// MongoRescheduleRepo is the MongoDB-backed RescheduleRepository.
type MongoRescheduleRepo struct {
	coll *mongo.Collection
}

func NewMongoRescheduleRepo() *MongoRescheduleRepo {
	repo := &MongoRescheduleRepo{coll: database.DB().Collection("reschedule_requests")}
	repo.ensureIndexes()
	return repo
}

func (r *MongoRescheduleRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Partial unique index: at most one pending request per booking. The
	// insert in CreatePending relies on the duplicate-key error this raises.
	pendingIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.ReschedulePending}),
	}
	idIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{pendingIdx, idIdx}); err != nil {
		fmt.Printf("reschedule index creation: %v\n", err)
	}
}

func (r *MongoRescheduleRepo) GetByID(ctx context.Context, id string) (*models.RescheduleRequest, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.RescheduleRequest
	err := r.coll.FindOne(ctxTimeout, bson.M{"id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("reschedule request %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching reschedule request %s: %w", id, err)
	}
	return &req, nil
}

func (r *MongoRescheduleRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.RescheduleRequest, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}})
	cur, err := r.coll.Find(ctxTimeout, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing reschedule requests: %w", err)
	}
	defer cur.Close(ctxTimeout)

	var out []models.RescheduleRequest
	if err := cur.All(ctxTimeout, &out); err != nil {
		return nil, fmt.Errorf("decoding reschedule requests: %w", err)
	}
	return out, nil
}

func (r *MongoRescheduleRepo) CreatePending(ctx context.Context, req *models.RescheduleRequest) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req.Status = models.ReschedulePending
	if _, err := r.coll.InsertOne(ctxTimeout, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("booking %s already has a pending request: %w", req.BookingID, repository.ErrConflict)
		}
		return fmt.Errorf("creating reschedule request: %w", err)
	}
	return nil
}

func (r *MongoRescheduleRepo) Resolve(ctx context.Context, id string, status models.RescheduleStatus, responseReason string) (*models.RescheduleRequest, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": id, "status": models.ReschedulePending}
	update := bson.M{"$set": bson.M{
		"status":          status,
		"response_reason": responseReason,
		"responded_at":    now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.RescheduleRequest
	err := r.coll.FindOneAndUpdate(ctxTimeout, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("reschedule request %s already resolved: %w", id, repository.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving reschedule request %s: %w", id, err)
	}
	return &updated, nil
}

func (r *MongoRescheduleRepo) ArchivePending(ctx context.Context, bookingID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"booking_id": bookingID, "status": models.ReschedulePending}
	update := bson.M{"$set": bson.M{"status": models.RescheduleArchived, "responded_at": now}}
	if _, err := r.coll.UpdateMany(ctxTimeout, filter, update); err != nil {
		return fmt.Errorf("archiving reschedule requests for booking %s: %w", bookingID, err)
	}
	return nil
}
