package bookingRepo

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

// MongoBookingRepo is the MongoDB-backed BookingRepository.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	// dayColl holds one version document per (provider, date). Every
	// transactional write touches it so concurrent claims on the same
	// provider-day produce a write conflict instead of both committing past
	// the overlap check.
	dayColl *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	repo := &MongoBookingRepo{
		bookingColl: database.DB().Collection("bookings"),
		dayColl:     database.DB().Collection("booking_days"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	idIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	dayIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
	}
	clientIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "date", Value: 1}},
	}
	if _, err := r.bookingColl.Indexes().CreateMany(ctx, []mongo.IndexModel{idIdx, dayIdx, clientIdx}); err != nil {
		// Index creation is idempotent; a failure here surfaces on first query.
		fmt.Printf("booking index creation: %v\n", err)
	}

	providerDayIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.dayColl.Indexes().CreateMany(ctx, []mongo.IndexModel{providerDayIdx}); err != nil {
		fmt.Printf("booking day index creation: %v\n", err)
	}
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := r.bookingColl.FindOne(ctxTimeout, bson.M{"id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) ListActiveForDay(ctx context.Context, providerID, date string) ([]models.Booking, error) {
	filter := bson.M{
		"provider_id": providerID,
		"date":        date,
		"status":      bson.M{"$ne": models.BookingCancelled},
	}
	return r.list(ctx, filter, bson.D{{Key: "start", Value: 1}})
}

func (r *MongoBookingRepo) ListByClient(ctx context.Context, clientID string, fromDate string) ([]models.Booking, error) {
	filter := bson.M{"client_id": clientID}
	if fromDate != "" {
		filter["date"] = bson.M{"$gte": fromDate}
	}
	return r.list(ctx, filter, bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
}

func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string, fromDate string) ([]models.Booking, error) {
	filter := bson.M{"provider_id": providerID}
	if fromDate != "" {
		filter["date"] = bson.M{"$gte": fromDate}
	}
	return r.list(ctx, filter, bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.Booking, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.bookingColl.Find(ctxTimeout, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer cur.Close(ctxTimeout)

	var out []models.Booking
	if err := cur.All(ctxTimeout, &out); err != nil {
		return nil, fmt.Errorf("decoding bookings: %w", err)
	}
	return out, nil
}

// overlapFilter matches non-cancelled bookings whose buffer-extended interval
// intersects [start-buffer, end+buffer) on the given provider-day.
func overlapFilter(providerID, date string, start, end, buffer int, excludeID string) bson.M {
	filter := bson.M{
		"provider_id": providerID,
		"date":        date,
		"status":      bson.M{"$ne": models.BookingCancelled},
		"start":       bson.M{"$lt": end + buffer},
		"end":         bson.M{"$gt": start - buffer},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

func (r *MongoBookingRepo) InsertIfFree(ctx context.Context, b *models.Booking, bufferMinutes int) error {
	return r.withDayTxn(ctx, b.ProviderID, b.Date, func(sc mongo.SessionContext) error {
		count, err := r.bookingColl.CountDocuments(sc,
			overlapFilter(b.ProviderID, b.Date, b.Start, b.End, bufferMinutes, ""))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("interval %s [%d,%d) taken: %w", b.Date, b.Start, b.End, repository.ErrConflict)
		}
		if _, err := r.bookingColl.InsertOne(sc, b); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	})
}

func (r *MongoBookingRepo) MoveIfFree(ctx context.Context, id string, newDate string, newStart, newEnd, bufferMinutes int,
	from []models.BookingStatus, expectedRescheduleCount int) (*models.Booking, error) {

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated models.Booking
	err = r.withDayTxn(ctx, current.ProviderID, newDate, func(sc mongo.SessionContext) error {
		count, err := r.bookingColl.CountDocuments(sc,
			overlapFilter(current.ProviderID, newDate, newStart, newEnd, bufferMinutes, id))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("interval %s [%d,%d) taken: %w", newDate, newStart, newEnd, repository.ErrConflict)
		}

		filter := bson.M{
			"id":               id,
			"status":           bson.M{"$in": from},
			"reschedule_count": expectedRescheduleCount,
		}
		update := bson.M{
			"$set": bson.M{
				"date":       newDate,
				"start":      newStart,
				"end":        newEnd,
				"updated_at": time.Now().UTC(),
			},
			"$inc": bson.M{"reschedule_count": 1},
		}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.bookingColl.FindOneAndUpdate(sc, filter, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Booking exists but the status or count precondition is stale.
			return fmt.Errorf("booking %s changed concurrently: %w", id, repository.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("move booking failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoBookingRepo) Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus,
	patch TransitionPatch) (*models.Booking, error) {

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	if patch.PaymentStatus != nil {
		set["payment_status"] = *patch.PaymentStatus
	}
	if patch.PaymentRef != nil {
		set["payment_ref"] = *patch.PaymentRef
	}
	if patch.CancelReason != nil {
		set["cancel_reason"] = *patch.CancelReason
	}
	if patch.CancelledBy != nil {
		set["cancelled_by"] = *patch.CancelledBy
	}

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.bookingColl.FindOneAndUpdate(ctxTimeout, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish "no such booking" from "wrong state".
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("booking %s not in expected state: %w", id, repository.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("transitioning booking %s: %w", id, err)
	}
	return &updated, nil
}

// withDayTxn runs fn inside a mongo session transaction that also bumps the
// (provider, date) version document. The bump makes two concurrent claims on
// the same provider-day write-conflict, so at most one commits past the
// overlap check; the loser is retried and then sees the winner's booking.
func (r *MongoBookingRepo) withDayTxn(ctx context.Context, providerID, date string, fn func(sc mongo.SessionContext) error) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		dayFilter := bson.M{"provider_id": providerID, "date": date}
		dayUpdate := bson.M{"$inc": bson.M{"version": 1}}
		if _, err := r.dayColl.UpdateOne(sc, dayFilter, dayUpdate, options.Update().SetUpsert(true)); err != nil {
			return nil, fmt.Errorf("claiming provider day failed: %w", err)
		}
		return nil, fn(sc)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// WithTransaction retries transient write conflicts; domain conflicts
	// (repository.ErrConflict) abort immediately.
	if _, err := sess.WithTransaction(ctxTimeout, txnFn); err != nil {
		return err
	}
	return nil
}
