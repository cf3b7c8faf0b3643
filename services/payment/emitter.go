package payment

import (
	"context"

	paymentRepo "glowbook/database/repository/payment"
	"glowbook/models"
	"glowbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LedgerEmitter durably records a payment instruction before handing it to
// the async queue. The ledger row is the source of truth; if the enqueue
// fails the reconciliation sweep picks the row up later, so a booking
// transition never blocks on the payment rail.
type LedgerEmitter struct {
	Instructions paymentRepo.InstructionRepository
	Queue        *asynq.Client
}

func NewLedgerEmitter(instructions paymentRepo.InstructionRepository, queue *asynq.Client) *LedgerEmitter {
	return &LedgerEmitter{Instructions: instructions, Queue: queue}
}

func (e *LedgerEmitter) Emit(ctx context.Context, instr *models.PaymentInstruction) error {
	logger := utils.GetLogger()

	if err := e.Instructions.Create(ctx, instr); err != nil {
		return err
	}

	task, opts, err := NewInstructionTask(instr.ID)
	if err != nil {
		return err
	}
	if _, err := e.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		// Row is already persisted; the sweep will re-enqueue it.
		logger.Warn("payment instruction enqueue failed, left for reconciliation",
			zap.String("instructionID", instr.ID),
			zap.String("kind", string(instr.Kind)),
			zap.Error(err))
		return nil
	}

	logger.Info("payment instruction emitted",
		zap.String("instructionID", instr.ID),
		zap.String("bookingID", instr.BookingID),
		zap.String("kind", string(instr.Kind)),
		zap.Int64("amount", instr.Amount))
	return nil
}
