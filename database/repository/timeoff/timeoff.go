package timeoffRepo

import (
	"context"

	"glowbook/models"
)

// TimeOffRepository stores provider exclusion windows. Past entries are kept
// for history; callers filter to current-or-future for display.
type TimeOffRepository interface {
	Create(ctx context.Context, t *models.TimeOff) error
	Delete(ctx context.Context, providerID, id string) error
	// ListCovering returns entries whose date range includes the given date.
	ListCovering(ctx context.Context, providerID, date string) ([]models.TimeOff, error)
	// ListFrom returns entries ending on or after the given date, ascending.
	ListFrom(ctx context.Context, providerID, date string) ([]models.TimeOff, error)
}
