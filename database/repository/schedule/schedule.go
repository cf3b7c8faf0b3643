package scheduleRepo

import (
	"context"

	"glowbook/models"
)

// ScheduleRepository stores one weekly schedule per provider.
type ScheduleRepository interface {
	GetByProvider(ctx context.Context, providerID string) (*models.Schedule, error)
	// Upsert validates and writes the schedule. A schedule with zero
	// available days is rejected and never persisted.
	Upsert(ctx context.Context, s *models.Schedule) error
}
