package handlers

import (
	"errors"
	"net/http"

	scheduleRepo "festivo/database/repository/schedule"
	"festivo/models"
	"festivo/services/schedule"
	"festivo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegenEnqueuer schedules a horizon rebuild after a schedule change.
type RegenEnqueuer interface {
	EnqueueRegenerate(providerID string) error
}

// ScheduleHandler manages provider schedule configuration. Validation runs
// here, at configuration time; the slot generator never sees a bad schedule.
type ScheduleHandler struct {
	Repo    scheduleRepo.ScheduleRepository
	Enqueue RegenEnqueuer
}

func NewScheduleHandler(repo scheduleRepo.ScheduleRepository, enq RegenEnqueuer) *ScheduleHandler {
	return &ScheduleHandler{Repo: repo, Enqueue: enq}
}

// GetSchedule handles GET /api/providers/:id/schedule.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	providerID := c.Param("id")
	sched, err := h.Repo.GetScheduleConfig(c.Request.Context(), providerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			utils.JSONError(c, http.StatusNotFound, "schedule not found", "no schedule configured for this provider")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load schedule", err.Error())
		return
	}
	c.JSON(http.StatusOK, sched)
}

// PutSchedule handles PUT /api/providers/:id/schedule: validate, persist,
// and enqueue a slot horizon regeneration.
func (h *ScheduleHandler) PutSchedule(c *gin.Context) {
	providerID := c.Param("id")

	var sched models.Schedule
	if err := c.ShouldBindJSON(&sched); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	sched.ProviderID = providerID

	if err := schedule.Validate(&sched); err != nil {
		var vErr *schedule.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":    "invalidSchedule",
				"field":   vErr.Field,
				"message": vErr.Message,
			})
			return
		}
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid schedule", err.Error())
		return
	}

	if err := h.Repo.SaveScheduleConfig(c.Request.Context(), &sched); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save schedule", err.Error())
		return
	}

	if err := h.Enqueue.EnqueueRegenerate(providerID); err != nil {
		// The schedule is saved; the nightly roll will pick it up even if
		// the immediate rebuild could not be queued.
		utils.GetLogger().Error("failed to enqueue slot regeneration",
			zap.String("providerID", providerID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "status": "saved"})
}
