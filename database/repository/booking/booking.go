package bookingRepo

import (
	"context"

	"glowbook/models"
)

// TransitionPatch carries the optional fields a status transition writes
// alongside the new status.
type TransitionPatch struct {
	PaymentStatus *models.PaymentStatus
	PaymentRef    *string
	CancelReason  *string
	CancelledBy   *models.Party
}

// BookingRepository stores bookings and enforces the storage-level pieces of
// the engine's invariants: interval non-overlap at insert/move time and
// compare-and-swap status transitions.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListActiveForDay returns the provider's non-cancelled bookings for a
	// date, ascending by start minute.
	ListActiveForDay(ctx context.Context, providerID, date string) ([]models.Booking, error)
	ListByClient(ctx context.Context, clientID string, fromDate string) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID string, fromDate string) ([]models.Booking, error)

	// InsertIfFree atomically inserts the booking iff no non-cancelled
	// booking of the same provider overlaps its buffered interval.
	// Returns repository.ErrConflict when another booking claimed the time.
	InsertIfFree(ctx context.Context, b *models.Booking, bufferMinutes int) error

	// MoveIfFree atomically re-times the booking iff the target interval is
	// free (ignoring the booking itself), the status is still one of `from`
	// and the reschedule count still matches. Returns the updated booking.
	MoveIfFree(ctx context.Context, id string, newDate string, newStart, newEnd, bufferMinutes int,
		from []models.BookingStatus, expectedRescheduleCount int) (*models.Booking, error)

	// Transition moves the booking from one of `from` to `to` with a single
	// compare-and-swap write. Returns repository.ErrConflict when the status
	// precondition no longer holds, so two racing transitions resolve to one
	// winner and never a lost update.
	Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus,
		patch TransitionPatch) (*models.Booking, error)
}
