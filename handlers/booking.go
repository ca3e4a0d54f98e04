package handlers

import (
	"errors"
	"net/http"

	bookingRepo "festivo/database/repository/booking"
	"festivo/models"
	"festivo/services/booking"
	"festivo/services/hold"
	"festivo/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler finalizes checkout: hold in, durable booking out.
type BookingHandler struct {
	Svc booking.ConfirmationService
}

func NewBookingHandler(svc booking.ConfirmationService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// ConfirmBooking handles POST /api/bookings/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req models.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Svc.ConfirmBooking(c.Request.Context(), req.HoldID)
	if err != nil {
		switch {
		case errors.Is(err, hold.ErrHoldNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "notFound",
				"message": "Hold not found.",
			})
		case errors.Is(err, hold.ErrHoldInactive):
			c.JSON(http.StatusGone, gin.H{
				"code":    "expired",
				"message": "Your hold has expired. Please re-check availability and start again.",
			})
		case errors.Is(err, bookingRepo.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{
				"code":    "unavailable",
				"message": "This slot is no longer available. Please re-check availability.",
			})
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to confirm booking", err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// CancelBooking handles DELETE /api/bookings/:id. Cancelling twice is a no-op
// and still answers 204.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	err := h.Svc.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "notFound",
				"message": "Booking not found.",
			})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
