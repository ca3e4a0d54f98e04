package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"festivo/models"
	"festivo/services/availability"
	"festivo/services/hold"
	"festivo/utils"

	"github.com/gin-gonic/gin"
)

// HoldHandler exposes the soft-hold lifecycle to the booking UI.
type HoldHandler struct {
	Manager hold.Manager
	Timer   *hold.ReservationTimer
}

func NewHoldHandler(manager hold.Manager, timer *hold.ReservationTimer) *HoldHandler {
	return &HoldHandler{Manager: manager, Timer: timer}
}

// CreateHold handles POST /api/holds.
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var req models.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Manager.CreateHold(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, hold.ErrAlreadyHeld):
			// Expected contention: someone else is holding this slot. Not a
			// system failure, so no error-level logging.
			c.JSON(http.StatusConflict, gin.H{
				"code":    "alreadyHeld",
				"message": "This slot is currently held by another customer. Please pick a different slot or try again shortly.",
			})
		case errors.Is(err, availability.ErrFullyBooked), errors.Is(err, availability.ErrSlotUnknown):
			c.JSON(http.StatusConflict, gin.H{
				"code":    "unavailable",
				"message": "This slot is no longer available. Please re-check availability.",
			})
		case errors.Is(err, hold.ErrStoreUnavailable):
			utils.JSONError(c, http.StatusServiceUnavailable, "temporarily unavailable", "please retry in a moment")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to create hold", err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"holdId":    created.ID,
		"serviceId": created.ServiceID,
		"expiresAt": created.ExpiresAt,
	})
}

// ExtendHold handles PATCH /api/holds/:id/extend.
func (h *HoldHandler) ExtendHold(c *gin.Context) {
	holdID := c.Param("id")
	var req models.ExtendHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	newExpiry, err := h.Manager.ExtendHold(holdID, time.Duration(req.AdditionalSeconds)*time.Second)
	if err != nil {
		switch {
		case errors.Is(err, hold.ErrInvalidDuration):
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "additionalSeconds must be positive")
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
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to extend hold", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdId": holdID, "newExpiresAt": newExpiry})
}

// ReleaseHold handles DELETE /api/holds/:id. Always 204: release is idempotent.
func (h *HoldHandler) ReleaseHold(c *gin.Context) {
	h.Manager.ReleaseHold(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// GetServiceHold handles GET /api/services/:serviceId/hold, letting the UI
// check contention before offering a slot.
func (h *HoldHandler) GetServiceHold(c *gin.Context) {
	serviceID := c.Param("serviceId")
	held := h.Manager.GetHoldForService(serviceID)
	if held == nil {
		c.JSON(http.StatusOK, gin.H{"serviceId": serviceID, "held": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"serviceId": serviceID,
		"held":      true,
		"expiresAt": held.ExpiresAt,
	})
}

// Countdown handles GET /api/holds/:id/countdown as a server-sent event
// stream: one "tick" per second with remaining seconds, terminated by a
// single "expire" or "release" event.
func (h *HoldHandler) Countdown(c *gin.Context) {
	holdID := c.Param("id")
	if h.Manager.GetHold(holdID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": "notFound", "message": "Hold not found."})
		return
	}

	sub := h.Timer.Subscribe(holdID)
	defer h.Timer.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			return ev.Kind == hold.EventTick
		case <-c.Request.Context().Done():
			return false
		}
	})
}
