package handlers

import (
	"net/http"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/models"
	"glowbook/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Lifecycle booking.LifecycleService
	Bookings  bookingRepo.BookingRepository
}

func NewBookingHandler(lifecycle booking.LifecycleService, bookings bookingRepo.BookingRepository) *BookingHandler {
	return &BookingHandler{Lifecycle: lifecycle, Bookings: bookings}
}

// CreateBookingHandler admits a new booking. POST /api/bookings
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input booking.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Lifecycle.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBookingHandler returns one booking. GET /api/bookings/:id
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler lists bookings for a client or a provider.
// GET /api/bookings?clientId= | ?providerId= [&from=YYYY-MM-DD]
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	clientID := c.Query("clientId")
	providerID := c.Query("providerId")
	from := c.Query("from")

	var (
		out []models.Booking
		err error
	)
	switch {
	case clientID != "":
		out, err = h.Bookings.ListByClient(c.Request.Context(), clientID, from)
	case providerID != "":
		out, err = h.Bookings.ListByProvider(c.Request.Context(), providerID, from)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId or providerId is required"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// ConfirmBookingHandler confirms a pending booking. POST /api/bookings/:id/confirm
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	b, err := h.Lifecycle.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler cancels a booking and settles fees per the provider's
// policy. POST /api/bookings/:id/cancel
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var input struct {
		Initiator models.Party `json:"initiator"`
		Reason    string       `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Lifecycle.Cancel(c.Request.Context(), c.Param("id"), input.Initiator, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RescheduleBookingHandler re-times a booking directly (mutual-consent path
// goes through the reschedule request endpoints instead).
// POST /api/bookings/:id/reschedule
func (h *BookingHandler) RescheduleBookingHandler(c *gin.Context) {
	var input struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Lifecycle.Reschedule(c.Request.Context(), c.Param("id"), input.Date, input.Time)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// MarkNoShowHandler records a no-show report. POST /api/bookings/:id/no-show
func (h *BookingHandler) MarkNoShowHandler(c *gin.Context) {
	var input struct {
		ReportedBy models.Party `json:"reportedBy"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Lifecycle.MarkNoShow(c.Request.Context(), c.Param("id"), input.ReportedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBookingHandler marks a finished appointment completed and charges
// any remaining balance. POST /api/bookings/:id/complete
func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	b, err := h.Lifecycle.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
