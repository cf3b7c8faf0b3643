package handlers

import (
	"net/http"

	"glowbook/models"
	"glowbook/services/booking"

	"github.com/gin-gonic/gin"
)

// RescheduleHandler exposes the negotiated reschedule workflow.
type RescheduleHandler struct {
	Reschedules booking.RescheduleService
}

func NewRescheduleHandler(reschedules booking.RescheduleService) *RescheduleHandler {
	return &RescheduleHandler{Reschedules: reschedules}
}

// RequestRescheduleHandler opens a reschedule request on a booking.
// POST /api/bookings/:id/reschedule-requests
func (h *RescheduleHandler) RequestRescheduleHandler(c *gin.Context) {
	var input struct {
		RequestedBy models.Party `json:"requestedBy"`
		Date        string       `json:"date"`
		Time        string       `json:"time"`
		Reason      string       `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	req, err := h.Reschedules.Request(c.Request.Context(), c.Param("id"),
		input.RequestedBy, input.Date, input.Time, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// RespondRescheduleHandler approves or denies a pending request.
// POST /api/reschedule-requests/:requestId/respond
func (h *RescheduleHandler) RespondRescheduleHandler(c *gin.Context) {
	var input struct {
		Responder models.Party `json:"responder"`
		Approve   *bool        `json:"approve"`
		Reason    string       `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Approve == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "responder and approve are required"})
		return
	}

	req, err := h.Reschedules.Respond(c.Request.Context(), c.Param("requestId"),
		input.Responder, *input.Approve, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListRescheduleRequestsHandler lists a booking's requests, newest first.
// GET /api/bookings/:id/reschedule-requests
func (h *RescheduleHandler) ListRescheduleRequestsHandler(c *gin.Context) {
	reqs, err := h.Reschedules.ListForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if reqs == nil {
		reqs = []models.RescheduleRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}
