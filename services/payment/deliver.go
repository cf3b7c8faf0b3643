package payment

import (
	"context"
	"fmt"

	paymentRepo "glowbook/database/repository/payment"
	"glowbook/models"
)

// Deliver executes one ledger instruction against the gateway and returns the
// processor's reference. A refund instruction that carries no payment
// reference resolves it from the booking's most recently settled charge, since
// charge references only reach the ledger when the worker settles them.
func Deliver(ctx context.Context, gateway Gateway, ledger paymentRepo.InstructionRepository, instr *models.PaymentInstruction) (string, error) {
	switch instr.Kind {
	case models.InstructionChargeDeposit, models.InstructionChargeBalance:
		return gateway.Charge(ctx, instr)
	case models.InstructionRefund:
		if instr.PaymentRef == "" {
			ref, err := ledger.SettledChargeRef(ctx, instr.BookingID)
			if err != nil {
				return "", err
			}
			if ref == "" {
				return "", fmt.Errorf("no settled charge to refund for booking %s", instr.BookingID)
			}
			instr.PaymentRef = ref
		}
		return gateway.Refund(ctx, instr)
	default:
		return "", fmt.Errorf("unknown instruction kind %q", instr.Kind)
	}
}
