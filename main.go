// File: festivo/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"festivo/config"
	"festivo/cron"
	"festivo/database"
	bookingRepoPkg "festivo/database/repository/booking"
	scheduleRepoPkg "festivo/database/repository/schedule"
	slotRepoPkg "festivo/database/repository/slot"
	"festivo/handlers"
	"festivo/middleware"
	"festivo/routes"
	"festivo/services/availability"
	"festivo/services/booking"
	"festivo/services/hold"
	"festivo/services/schedule"
	"festivo/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	schedRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()

	// Hold manager owns the expiry sweep; the timer drives UI countdowns.
	clock := utils.SystemClock()
	holdManager := hold.NewHoldManager(clock, config.HoldDuration(), config.SweepInterval())
	timer := hold.NewReservationTimer(holdManager, clock, 0)
	holdManager.AttachNotifier(timer)

	availabilitySvc := &availability.DefaultAvailabilityService{
		Slots:    slotRepo,
		Bookings: bookRepo,
		Holds:    holdManager,
		Cache:    utils.GetCacheClient(),
		CacheTTL: time.Duration(config.AppConfig.AvailCacheSec) * time.Second,
	}
	holdManager.SetStoreCheck(availabilitySvc)

	confirmationSvc := &booking.DefaultConfirmationService{
		Holds: holdManager,
		Slots: slotRepo,
		Store: bookRepo,
		Clock: clock,
	}

	regenerator := &schedule.Regenerator{
		Schedules:   schedRepo,
		Slots:       slotRepo,
		HorizonDays: config.AppConfig.HorizonDays,
		Clock:       clock,
	}
	regenClient := cron.NewRegenClient()
	cron.InitRegenWorker(regenerator)

	engineHandlers := &routes.EngineHandlers{
		Availability: handlers.NewAvailabilityHandler(availabilitySvc),
		Holds:        handlers.NewHoldHandler(holdManager, timer),
		Schedules:    handlers.NewScheduleHandler(schedRepo, regenClient),
		Bookings:     handlers.NewBookingHandler(confirmationSvc),
	}
	routes.RegisterRoutes(router, engineHandlers)

	utils.StartHealthMonitor(utils.HealthDeps{
		Cache:       utils.GetCacheClient(),
		Queue:       utils.GetQueueClient(),
		Mongo:       database.MongoClient,
		ActiveHolds: holdManager.ActiveHolds,
	})

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
	logger.Sugar().Info("main: server is shutting down...")

	holdManager.Stop()
	timer.Stop()
	_ = regenClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
