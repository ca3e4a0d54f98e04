package handlers

import (
	"net/http"
	"strconv"
	"time"

	"festivo/services/availability"
	"festivo/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves availability queries for the booking UI.
type AvailabilityHandler struct {
	Svc availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// QueryAvailability handles GET /api/availability?providerId&date&area&minRemaining.
func (h *AvailabilityHandler) QueryAvailability(c *gin.Context) {
	providerID := c.Query("providerId")
	date := c.Query("date")
	if providerID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "providerId and date are required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "date must be formatted YYYY-MM-DD")
		return
	}

	filters := availability.Filters{ServiceArea: c.Query("area")}
	if raw := c.Query("minRemaining"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid query", "minRemaining must be a non-negative integer")
			return
		}
		filters.MinRemaining = min
	}

	slots, err := h.Svc.Query(c.Request.Context(), providerID, date, filters)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to query availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "date": date, "slots": slots})
}
