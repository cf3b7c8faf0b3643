package rescheduleRepo

import (
	"context"

	"glowbook/models"
)

// RescheduleRepository stores negotiated reschedule requests. The storage
// layer enforces the one-pending-per-booking rule.
type RescheduleRepository interface {
	GetByID(ctx context.Context, id string) (*models.RescheduleRequest, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.RescheduleRequest, error)
	// CreatePending inserts the request iff the booking has no other pending
	// request; returns repository.ErrConflict otherwise.
	CreatePending(ctx context.Context, req *models.RescheduleRequest) error
	// Resolve moves a pending request to its terminal status with a
	// compare-and-swap on "pending"; repository.ErrConflict if already
	// resolved.
	Resolve(ctx context.Context, id string, status models.RescheduleStatus, responseReason string) (*models.RescheduleRequest, error)
	// ArchivePending marks any pending request of the booking as archived
	// (used when the booking is cancelled).
	ArchivePending(ctx context.Context, bookingID string) error
}
