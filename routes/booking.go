package routes

import (
	"glowbook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking lifecycle and the negotiated
// reschedule workflow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("", hb.Booking.ListBookingsHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)

		api.POST("/:id/confirm", hb.Booking.ConfirmBookingHandler)
		api.POST("/:id/cancel", hb.Booking.CancelBookingHandler)
		api.POST("/:id/reschedule", hb.Booking.RescheduleBookingHandler)
		api.POST("/:id/no-show", hb.Booking.MarkNoShowHandler)
		api.POST("/:id/complete", hb.Booking.CompleteBookingHandler)

		api.POST("/:id/reschedule-requests", hb.Reschedule.RequestRescheduleHandler)
		api.GET("/:id/reschedule-requests", hb.Reschedule.ListRescheduleRequestsHandler)
	}

	r.POST("/api/reschedule-requests/:requestId/respond", hb.Reschedule.RespondRescheduleHandler)
}
