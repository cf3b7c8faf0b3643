package payment

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeInstructionDeliver = "payment:deliver"
	QueuePayments          = "payments"
)

// InstructionTaskPayload carries only the ledger row id. The worker reloads
// the instruction from the ledger so a retried task always sees the current
// status and never double-delivers a settled instruction.
type InstructionTaskPayload struct {
	InstructionID string `json:"instructionId"`
}

func NewInstructionTask(instructionID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(InstructionTaskPayload{InstructionID: instructionID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.Queue(QueuePayments),
		asynq.MaxRetry(10),
		// One in-flight task per ledger row; the reconciliation sweep can
		// re-enqueue safely without duplicating deliveries.
		asynq.TaskID(instructionID),
	}
	return asynq.NewTask(TypeInstructionDeliver, b), opts, nil
}
