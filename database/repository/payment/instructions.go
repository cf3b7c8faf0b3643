package paymentRepo

import (
	"context"

	"glowbook/models"
)

// InstructionRepository is the durable ledger of payment instructions. Every
// charge/refund decision is written here before anything talks to the payment
// provider, so a crash between the decision and the external call is
// recoverable by the reconciliation worker.
type InstructionRepository interface {
	Create(ctx context.Context, ins *models.PaymentInstruction) error
	GetByID(ctx context.Context, id string) (*models.PaymentInstruction, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.PaymentInstruction, error)
	// ListUnsettled returns pending instructions oldest first, for the
	// reconciliation sweep.
	ListUnsettled(ctx context.Context, limit int) ([]models.PaymentInstruction, error)
	// SettledChargeRef returns the provider reference of the booking's most
	// recently settled charge, or "" when no charge has settled yet.
	SettledChargeRef(ctx context.Context, bookingID string) (string, error)
	MarkSettled(ctx context.Context, id, providerRef string) error
	MarkFailed(ctx context.Context, id, reason string) error
}
