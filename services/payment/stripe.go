package payment

import (
	"context"
	"fmt"

	"glowbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// Gateway abstracts the payment processor. Charges return the processor's
// reference so it can be stored on the ledger row and used for later refunds.
type Gateway interface {
	Charge(ctx context.Context, instr *models.PaymentInstruction) (ref string, err error)
	Refund(ctx context.Context, instr *models.PaymentInstruction) (ref string, err error)
}

// StripeGateway drives charges through PaymentIntents. It relies on the
// package-level stripe.Key being set at startup.
type StripeGateway struct{}

func (g *StripeGateway) Charge(ctx context.Context, instr *models.PaymentInstruction) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(instr.Amount),
		Currency: stripe.String(instr.Currency),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingId", instr.BookingID)
	params.AddMetadata("instructionId", instr.ID)
	params.AddMetadata("kind", string(instr.Kind))

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe charge for booking %s: %w", instr.BookingID, err)
	}
	return pi.ID, nil
}

func (g *StripeGateway) Refund(ctx context.Context, instr *models.PaymentInstruction) (string, error) {
	if instr.PaymentRef == "" {
		return "", fmt.Errorf("refund for booking %s has no payment reference", instr.BookingID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(instr.PaymentRef),
		Amount:        stripe.Int64(instr.Amount),
	}
	params.Context = ctx
	params.AddMetadata("bookingId", instr.BookingID)
	params.AddMetadata("instructionId", instr.ID)

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund for booking %s: %w", instr.BookingID, err)
	}
	return r.ID, nil
}
