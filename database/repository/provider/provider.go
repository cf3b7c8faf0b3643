package providerRepo

import (
	"context"

	"glowbook/models"
)

// ProviderRepository exposes the provider profile reads and the settings-level
// writes the booking engine needs. Profile creation and the wider marketplace
// surface live elsewhere.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	Create(ctx context.Context, p *models.Provider) error
	Update(ctx context.Context, p *models.Provider) error
	// UpdatePolicy replaces the provider's policy configuration. The booking
	// flow itself never calls this.
	UpdatePolicy(ctx context.Context, providerID string, policy models.PolicyConfig) error
}
