package routes

import (
	"time"

	"festivo/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// EngineHandlers bundles the reservation engine's HTTP handlers.
type EngineHandlers struct {
	Availability *handlers.AvailabilityHandler
	Holds        *handlers.HoldHandler
	Schedules    *handlers.ScheduleHandler
	Bookings     *handlers.BookingHandler
}

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, h *EngineHandlers) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	{
		api.GET("/availability", h.Availability.QueryAvailability)

		holds := api.Group("/holds")
		{
			holds.POST("", h.Holds.CreateHold)
			holds.PATCH("/:id/extend", h.Holds.ExtendHold)
			holds.DELETE("/:id", h.Holds.ReleaseHold)
			holds.GET("/:id/countdown", h.Holds.Countdown)
		}
		api.GET("/services/:serviceId/hold", h.Holds.GetServiceHold)

		providers := api.Group("/providers")
		{
			providers.GET("/:id/schedule", h.Schedules.GetSchedule)
			providers.PUT("/:id/schedule", h.Schedules.PutSchedule)
		}

		api.POST("/bookings/confirm", h.Bookings.ConfirmBooking)
		api.DELETE("/bookings/:id", h.Bookings.CancelBooking)
	}
}
