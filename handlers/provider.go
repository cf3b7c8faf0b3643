package handlers

import (
	"errors"
	"net/http"

	"glowbook/database/repository"
	providerRepo "glowbook/database/repository/provider"
	"glowbook/models"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProviderHandler covers the provider profile surface the booking engine
// depends on: the profile itself, its service catalog and its policy config.
type ProviderHandler struct {
	Providers providerRepo.ProviderRepository
	Clock     utils.Clock
}

func NewProviderHandler(providers providerRepo.ProviderRepository, clock utils.Clock) *ProviderHandler {
	return &ProviderHandler{Providers: providers, Clock: clock}
}

// GetProviderByIDHandler returns a provider profile. GET /api/providers/:id
func (h *ProviderHandler) GetProviderByIDHandler(c *gin.Context) {
	p, err := h.Providers.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProviderHandler registers a provider profile. POST /api/providers
func (h *ProviderHandler) CreateProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := p.Policy.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	p.CreatedAt = h.Clock.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	if err := h.Providers.Create(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, &p)
}

// UpdateProviderHandler replaces the provider profile. PUT /api/providers/:id
func (h *ProviderHandler) UpdateProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	p.ID = c.Param("id")
	if err := p.Policy.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	p.UpdatedAt = h.Clock.Now().UTC()

	if err := h.Providers.Update(c.Request.Context(), &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, &p)
}

// GetPolicyHandler returns only the provider's policy configuration.
// GET /api/providers/:id/policy
func (h *ProviderHandler) GetPolicyHandler(c *gin.Context) {
	p, err := h.Providers.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Policy)
}

// UpdatePolicyHandler replaces the policy configuration. Policy changes apply
// to future evaluations only; bookings already settled are untouched.
// PUT /api/providers/:id/policy
func (h *ProviderHandler) UpdatePolicyHandler(c *gin.Context) {
	var policy models.PolicyConfig
	if err := c.ShouldBindJSON(&policy); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := policy.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.Providers.UpdatePolicy(c.Request.Context(), c.Param("id"), policy); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}
