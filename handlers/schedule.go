package handlers

import (
	"errors"
	"net/http"
	"time"

	"glowbook/database/repository"
	scheduleRepo "glowbook/database/repository/schedule"
	timeoffRepo "glowbook/database/repository/timeoff"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScheduleHandler manages a provider's weekly schedule and time-off entries.
// Both kinds of write invalidate the provider's cached availability.
type ScheduleHandler struct {
	Schedules    scheduleRepo.ScheduleRepository
	TimeOff      timeoffRepo.TimeOffRepository
	Availability *booking.AvailabilityEngine
	Clock        utils.Clock
}

func NewScheduleHandler(schedules scheduleRepo.ScheduleRepository, timeOff timeoffRepo.TimeOffRepository,
	availability *booking.AvailabilityEngine, clock utils.Clock) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules, TimeOff: timeOff, Availability: availability, Clock: clock}
}

// GetScheduleHandler returns the provider's weekly schedule.
// GET /api/providers/:id/schedule
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	s, err := h.Schedules.GetByProvider(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpsertScheduleHandler replaces the provider's weekly schedule. Existing
// bookings are never modified; the new schedule only governs new admissions.
// PUT /api/providers/:id/schedule
func (h *ScheduleHandler) UpsertScheduleHandler(c *gin.Context) {
	var s models.Schedule
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	s.ProviderID = c.Param("id")
	s.UpdatedAt = h.Clock.Now().UTC()

	if err := s.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := h.Schedules.Upsert(c.Request.Context(), &s); err != nil {
		respondError(c, err)
		return
	}

	h.Availability.InvalidateProvider(c.Request.Context(), s.ProviderID)
	c.JSON(http.StatusOK, &s)
}

// CreateTimeOffHandler blocks out a date range. POST /api/providers/:id/time-off
func (h *ScheduleHandler) CreateTimeOffHandler(c *gin.Context) {
	var t models.TimeOff
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	t.ID = uuid.New().String()
	t.ProviderID = c.Param("id")
	t.CreatedAt = h.Clock.Now().UTC()

	if err := t.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := h.TimeOff.Create(c.Request.Context(), &t); err != nil {
		respondError(c, err)
		return
	}

	h.Availability.InvalidateProvider(c.Request.Context(), t.ProviderID)
	c.JSON(http.StatusCreated, &t)
}

// ListTimeOffHandler lists current and upcoming time-off entries.
// GET /api/providers/:id/time-off
func (h *ScheduleHandler) ListTimeOffHandler(c *gin.Context) {
	today := h.Clock.Now().UTC().Format(models.DateLayout)
	if from := c.Query("from"); from != "" {
		if _, err := time.Parse(models.DateLayout, from); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		today = from
	}

	entries, err := h.TimeOff.ListFrom(c.Request.Context(), c.Param("id"), today)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.TimeOff{}
	}
	c.JSON(http.StatusOK, gin.H{"timeOff": entries})
}

// DeleteTimeOffHandler removes a time-off entry, releasing its dates.
// DELETE /api/providers/:id/time-off/:timeOffId
func (h *ScheduleHandler) DeleteTimeOffHandler(c *gin.Context) {
	providerID := c.Param("id")
	if err := h.TimeOff.Delete(c.Request.Context(), providerID, c.Param("timeOffId")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "time-off entry not found"})
			return
		}
		respondError(c, err)
		return
	}

	h.Availability.InvalidateProvider(c.Request.Context(), providerID)
	c.Status(http.StatusNoContent)
}
