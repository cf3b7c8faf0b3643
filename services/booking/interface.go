package booking

import (
	"context"

	"glowbook/models"
)

// PaymentEmitter records a payment instruction durably and hands it to the
// external payment collaborator asynchronously. The engine never awaits
// settlement; it emits and finalizes the state transition.
type PaymentEmitter interface {
	Emit(ctx context.Context, ins *models.PaymentInstruction) error
}

// CalendarEmitter pushes booking changes toward the external calendar sync
// collaborator, fire-and-forget.
type CalendarEmitter interface {
	Emit(ctx context.Context, ev models.CalendarEvent) error
}

// CreateBookingInput is the caller's request for a new booking.
type CreateBookingInput struct {
	ProviderID string `json:"providerId"`
	ClientID   string `json:"clientId"`
	ServiceID  string `json:"serviceId"`
	Date       string `json:"date"` // "2006-01-02"
	Time       string `json:"time"` // "HH:MM", provider-local
}

// LifecycleService owns a booking's lifecycle: admission and every
// side-effecting transition.
type LifecycleService interface {
	Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string, initiator models.Party, reason string) (*models.Booking, error)
	Reschedule(ctx context.Context, bookingID, newDate, newTime string) (*models.Booking, error)
	MarkNoShow(ctx context.Context, bookingID string, reportedBy models.Party) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
}

// RescheduleService is the negotiated, two-party reschedule workflow layered
// above the direct reschedule.
type RescheduleService interface {
	Request(ctx context.Context, bookingID string, requestedBy models.Party, newDate, newTime, reason string) (*models.RescheduleRequest, error)
	Respond(ctx context.Context, requestID string, responder models.Party, approve bool, reason string) (*models.RescheduleRequest, error)
	ListForBooking(ctx context.Context, bookingID string) ([]models.RescheduleRequest, error)
}
