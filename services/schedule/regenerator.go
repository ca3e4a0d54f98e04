package schedule

import (
	"context"
	"fmt"

	scheduleRepo "festivo/database/repository/schedule"
	slotRepo "festivo/database/repository/slot"
	"festivo/utils"

	"go.uber.org/zap"
)

// Regenerator rebuilds a provider's rolling slot horizon from its schedule.
// It runs whenever a schedule changes and nightly to roll the horizon
// forward; generated slots are derived state and safe to rebuild wholesale.
type Regenerator struct {
	Schedules   scheduleRepo.ScheduleRepository
	Slots       slotRepo.SlotRepository
	HorizonDays int
	Clock       utils.Clock
}

// RegenerateProvider replaces the provider's generated slots. Returns the
// number of slots written.
func (r *Regenerator) RegenerateProvider(ctx context.Context, providerID string) (int, error) {
	sched, err := r.Schedules.GetScheduleConfig(ctx, providerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load schedule for provider %s: %w", providerID, err)
	}

	clock := r.Clock
	if clock == nil {
		clock = utils.SystemClock()
	}
	slots := GenerateSlots(sched, r.HorizonDays, clock.Now())
	if err := r.Slots.ReplaceProviderSlots(ctx, providerID, slots); err != nil {
		return 0, err
	}

	utils.GetLogger().Info("regenerated slot horizon",
		zap.String("providerID", providerID),
		zap.Int("slots", len(slots)))
	return len(slots), nil
}

// RegenerateAll rolls every provider's horizon and drops slots whose date
// has passed. Per-provider failures are logged and skipped so one broken
// schedule does not stall the rest.
func (r *Regenerator) RegenerateAll(ctx context.Context) error {
	logger := utils.GetLogger()

	ids, err := r.Schedules.ListProviderIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list providers: %w", err)
	}
	for _, id := range ids {
		if _, err := r.RegenerateProvider(ctx, id); err != nil {
			logger.Error("horizon regeneration failed", zap.String("providerID", id), zap.Error(err))
		}
	}

	clock := r.Clock
	if clock == nil {
		clock = utils.SystemClock()
	}
	today := clock.Now().Format("2006-01-02")
	deleted, err := r.Slots.DeleteStaleSlots(ctx, today)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logger.Info("pruned stale slots", zap.Int64("count", deleted))
	}
	return nil
}
