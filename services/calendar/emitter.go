package calendar

import (
	"context"
	"encoding/json"

	"glowbook/models"
	"glowbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeEventDeliver = "calendar:deliver"
	QueueCalendar    = "calendar"
)

func NewEventTask(ev models.CalendarEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.Queue(QueueCalendar),
		asynq.MaxRetry(5),
	}
	return asynq.NewTask(TypeEventDeliver, b), opts, nil
}

// AsynqEmitter ships calendar events to the background worker. Events are
// advisory; a failed enqueue is logged and dropped rather than failing the
// booking transition that produced it.
type AsynqEmitter struct {
	Queue *asynq.Client
}

func NewAsynqEmitter(queue *asynq.Client) *AsynqEmitter {
	return &AsynqEmitter{Queue: queue}
}

func (e *AsynqEmitter) Emit(ctx context.Context, ev models.CalendarEvent) error {
	task, opts, err := NewEventTask(ev)
	if err != nil {
		return err
	}
	if _, err := e.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Warn("calendar event enqueue failed",
			zap.String("bookingID", ev.BookingID),
			zap.String("type", string(ev.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
