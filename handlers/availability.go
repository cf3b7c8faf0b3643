package handlers

import (
	"net/http"

	"glowbook/models"
	"glowbook/services/booking"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves slot queries for the booking UI.
type AvailabilityHandler struct {
	Engine *booking.AvailabilityEngine
}

func NewAvailabilityHandler(engine *booking.AvailabilityEngine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

// GetAvailableSlotsHandler returns the bookable start times for a provider,
// service and date. GET /api/providers/:id/availability?serviceId=&date=
func (h *AvailabilityHandler) GetAvailableSlotsHandler(c *gin.Context) {
	providerID := c.Param("id")
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceId and date are required"})
		return
	}

	slots, err := h.Engine.GetAvailableSlots(c.Request.Context(), providerID, serviceID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	c.JSON(http.StatusOK, gin.H{
		"providerId": providerID,
		"serviceId":  serviceID,
		"date":       date,
		"slots":      slots,
	})
}
