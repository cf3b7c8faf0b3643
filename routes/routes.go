package routes

import (
	"net/http"
	"time"

	"glowbook/handlers"
	"glowbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProviderRoutes registers provider profile, schedule, time-off and
// policy endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.POST("", hb.Provider.CreateProviderHandler)
		api.GET("/:id", hb.Provider.GetProviderByIDHandler)
		api.PUT("/:id", hb.Provider.UpdateProviderHandler)

		api.GET("/:id/policy", hb.Provider.GetPolicyHandler)
		api.PUT("/:id/policy", hb.Provider.UpdatePolicyHandler)

		api.GET("/:id/schedule", hb.Schedule.GetScheduleHandler)
		api.PUT("/:id/schedule", hb.Schedule.UpsertScheduleHandler)

		api.POST("/:id/time-off", hb.Schedule.CreateTimeOffHandler)
		api.GET("/:id/time-off", hb.Schedule.ListTimeOffHandler)
		api.DELETE("/:id/time-off/:timeOffId", hb.Schedule.DeleteTimeOffHandler)

		api.GET("/:id/availability", hb.Availability.GetAvailableSlotsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm Glowbook",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
