// File: glowbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowbook/config"
	"glowbook/cron"
	"glowbook/database"
	bookingRepoPkg "glowbook/database/repository/booking"
	paymentRepoPkg "glowbook/database/repository/payment"
	providerRepoPkg "glowbook/database/repository/provider"
	rescheduleRepoPkg "glowbook/database/repository/reschedule"
	scheduleRepoPkg "glowbook/database/repository/schedule"
	timeoffRepoPkg "glowbook/database/repository/timeoff"
	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/routes"
	"glowbook/services/booking"
	"glowbook/services/calendar"
	"glowbook/services/payment"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	schedRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	offRepo := timeoffRepoPkg.NewMongoTimeOffRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	reschRepo := rescheduleRepoPkg.NewMongoRescheduleRepo()
	instrRepo := paymentRepoPkg.NewMongoInstructionRepo()

	clock := utils.SystemClock()
	queueClient := cron.NewQueueClient()

	// services.
	availabilityEngine := &booking.AvailabilityEngine{
		Providers:          provRepo,
		Schedules:          schedRepo,
		TimeOff:            offRepo,
		Bookings:           bookRepo,
		Cache:              utils.GetCacheClient(),
		CacheTTL:           time.Duration(config.AppConfig.AvailabilityCacheTTLSecs) * time.Second,
		Clock:              clock,
		DefaultStepMinutes: config.AppConfig.DefaultSlotIntervalMinutes,
	}

	lifecycleService := &booking.DefaultLifecycleService{
		Bookings:           bookRepo,
		Providers:          provRepo,
		Schedules:          schedRepo,
		Reschedules:        reschRepo,
		Availability:       availabilityEngine,
		Payments:           payment.NewLedgerEmitter(instrRepo, queueClient),
		Calendar:           calendar.NewAsynqEmitter(queueClient),
		Clock:              clock,
		PlatformFeePercent: config.AppConfig.PlatformFeePercent,
	}

	rescheduleService := &booking.DefaultRescheduleService{
		Bookings:  bookRepo,
		Requests:  reschRepo,
		Lifecycle: lifecycleService,
		Clock:     clock,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityEngine),
		Booking:      handlers.NewBookingHandler(lifecycleService, bookRepo),
		Provider:     handlers.NewProviderHandler(provRepo, clock),
		Schedule:     handlers.NewScheduleHandler(schedRepo, offRepo, availabilityEngine, clock),
		Reschedule:   handlers.NewRescheduleHandler(rescheduleService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background delivery worker and health monitor.
	cron.InitWorker(&payment.StripeGateway{}, instrRepo)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := queueClient.Close(); err != nil {
		logger.Sugar().Warnf("main: closing queue client: %v", err)
	}
	logger.Info("Server exited cleanly")
}
