package paymentRepo

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

// MongoInstructionRepo is the MongoDB-backed InstructionRepository.
type MongoInstructionRepo struct {
	coll *mongo.Collection
}

func NewMongoInstructionRepo() *MongoInstructionRepo {
	return &MongoInstructionRepo{coll: database.DB().Collection("payment_instructions")}
}

func (r *MongoInstructionRepo) Create(ctx context.Context, ins *models.PaymentInstruction) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxTimeout, ins); err != nil {
		return fmt.Errorf("recording payment instruction: %w", err)
	}
	return nil
}

func (r *MongoInstructionRepo) GetByID(ctx context.Context, id string) (*models.PaymentInstruction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ins models.PaymentInstruction
	err := r.coll.FindOne(ctxTimeout, bson.M{"id": id}).Decode(&ins)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("payment instruction %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching payment instruction %s: %w", id, err)
	}
	return &ins, nil
}

func (r *MongoInstructionRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.PaymentInstruction, error) {
	return r.list(ctx, bson.M{"booking_id": bookingID}, 0)
}

func (r *MongoInstructionRepo) ListUnsettled(ctx context.Context, limit int) ([]models.PaymentInstruction, error) {
	return r.list(ctx, bson.M{"status": models.InstructionPending}, int64(limit))
}

func (r *MongoInstructionRepo) SettledChargeRef(ctx context.Context, bookingID string) (string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"booking_id": bookingID,
		"status":     models.InstructionSettled,
		"kind":       bson.M{"$in": []models.InstructionKind{models.InstructionChargeDeposit, models.InstructionChargeBalance}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var ins models.PaymentInstruction
	err := r.coll.FindOne(ctxTimeout, filter, opts).Decode(&ins)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving settled charge for booking %s: %w", bookingID, err)
	}
	return ins.PaymentRef, nil
}

func (r *MongoInstructionRepo) list(ctx context.Context, filter bson.M, limit int64) ([]models.PaymentInstruction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing payment instructions: %w", err)
	}
	defer cur.Close(ctxTimeout)

	var out []models.PaymentInstruction
	if err := cur.All(ctxTimeout, &out); err != nil {
		return nil, fmt.Errorf("decoding payment instructions: %w", err)
	}
	return out, nil
}

func (r *MongoInstructionRepo) MarkSettled(ctx context.Context, id, providerRef string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"status": models.InstructionSettled, "payment_ref": providerRef, "settled_at": now},
		"$inc": bson.M{"attempts": 1},
	}
	res, err := r.coll.UpdateOne(ctxTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("settling payment instruction %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("payment instruction %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoInstructionRepo) MarkFailed(ctx context.Context, id, reason string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"status": models.InstructionFailed, "last_error": reason},
		"$inc": bson.M{"attempts": 1},
	}
	res, err := r.coll.UpdateOne(ctxTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failing payment instruction %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("payment instruction %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
