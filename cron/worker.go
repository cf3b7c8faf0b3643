package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"glowbook/config"
	paymentRepo "glowbook/database/repository/payment"
	"glowbook/models"
	"glowbook/services/calendar"
	"glowbook/services/payment"

	"github.com/hibiken/asynq"
)

const (
	// Unsettled ledger rows older than this are assumed to have lost their
	// task (enqueue failure or queue wipe) and are re-enqueued by the sweep.
	reconcileAfter = 10 * time.Minute
	sweepInterval  = 5 * time.Minute
	sweepBatchSize = 100
)

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the asynq client the emitters enqueue through.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(queueRedisOpts())
}

// InitWorker runs the background delivery worker: payment instructions are
// delivered to the gateway and marked on the ledger, calendar events are
// shipped downstream, and a periodic sweep re-enqueues stale ledger rows.
func InitWorker(gateway payment.Gateway, instructions paymentRepo.InstructionRepository) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				payment.QueuePayments:  3,
				calendar.QueueCalendar: 1,
				"default":              1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(payment.TypeInstructionDeliver, handleInstructionTask(gateway, instructions))
	mux.HandleFunc(calendar.TypeEventDeliver, handleCalendarTask)

	go runReconciliationSweep(instructions)

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleInstructionTask(gateway payment.Gateway, instructions paymentRepo.InstructionRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p payment.InstructionTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PaymentWorker] 🔴 Invalid payload: %v", err)
			return err
		}

		instr, err := instructions.GetByID(ctx, p.InstructionID)
		if err != nil {
			return err
		}
		// Retried tasks and sweep re-enqueues reload from the ledger, so a
		// row that settled in the meantime is simply skipped.
		if instr.Status != models.InstructionPending {
			return nil
		}

		ref, err := payment.Deliver(ctx, gateway, instructions, instr)
		if err != nil {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			if retried >= maxRetry {
				log.Printf("[PaymentWorker] ❌ Instruction %s exhausted retries: %v", instr.ID, err)
				return instructions.MarkFailed(ctx, instr.ID, err.Error())
			}
			log.Printf("[PaymentWorker] ⚠️ Delivery of %s failed (attempt %d): %v", instr.ID, retried+1, err)
			return err
		}

		if err := instructions.MarkSettled(ctx, instr.ID, ref); err != nil {
			log.Printf("[PaymentWorker] 🔴 Charge succeeded but ledger update failed for %s: %v", instr.ID, err)
			return err
		}
		log.Printf("[PaymentWorker] 💸 Settled %s instruction %s for booking %s", instr.Kind, instr.ID, instr.BookingID)
		return nil
	}
}

func handleCalendarTask(ctx context.Context, task *asynq.Task) error {
	var ev models.CalendarEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		log.Printf("[CalendarWorker] 🔴 Invalid payload: %v", err)
		return err
	}

	// Delivery to the external calendar sync is fire-and-forget from the
	// booking engine's point of view; this is the hand-off point.
	log.Printf("[CalendarWorker] 📅 %s for booking %s (%s %s)",
		ev.Type, ev.BookingID, ev.Date, models.FormatMinute(ev.Start))
	return nil
}

// runReconciliationSweep periodically re-enqueues pending ledger rows whose
// delivery task has gone missing.
func runReconciliationSweep(instructions paymentRepo.InstructionRepository) {
	client := NewQueueClient()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		sweepOnce(ctx, client, instructions)
		cancel()
	}
}

func sweepOnce(ctx context.Context, client *asynq.Client, instructions paymentRepo.InstructionRepository) {
	rows, err := instructions.ListUnsettled(ctx, sweepBatchSize)
	if err != nil {
		log.Printf("[ReconcileSweep] ⚠️ Listing unsettled instructions: %v", err)
		return
	}

	cutoff := time.Now().UTC().Add(-reconcileAfter)
	requeued := 0
	for i := range rows {
		if rows[i].CreatedAt.After(cutoff) {
			continue
		}
		task, opts, err := payment.NewInstructionTask(rows[i].ID)
		if err != nil {
			continue
		}
		if _, err := client.EnqueueContext(ctx, task, opts...); err != nil {
			// A live task with the same id already covers this row.
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			log.Printf("[ReconcileSweep] ⚠️ Re-enqueue of %s failed: %v", rows[i].ID, err)
			continue
		}
		requeued++
	}
	if requeued > 0 {
		log.Printf("[ReconcileSweep] 🔁 Re-enqueued %d stale payment instruction(s)", requeued)
	}
}
