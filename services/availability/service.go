package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"festivo/models"
	"festivo/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SlotReader reads generated slots from the durable store.
type SlotReader interface {
	GetSlotsByDate(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error)
	GetSlotByID(ctx context.Context, providerID, slotID string) (*models.AvailabilitySlot, error)
}

// BookingCounter reads confirmed booking counts, the store being the source
// of truth for them.
type BookingCounter interface {
	GetBookingCount(ctx context.Context, providerID, date, slotID string) (int, error)
}

// HoldCounter reads the in-process advisory soft-hold count per service.
type HoldCounter interface {
	ActiveHoldCount(serviceID string) int
}

// Filters narrows an availability query.
type Filters struct {
	ServiceArea  string
	MinRemaining int
}

// Service answers "what can still be booked" for a provider and date.
type Service interface {
	Query(ctx context.Context, providerID, date string, f Filters) ([]models.SlotSummary, error)
}

// DefaultAvailabilityService computes remaining capacity as
// maxBookings - currentBookings - activeSoftHolds. It is purely a read: it
// never mutates booking counts or holds.
type DefaultAvailabilityService struct {
	Slots    SlotReader
	Bookings BookingCounter
	Holds    HoldCounter
	Cache    *redis.Client // optional; short-TTL response cache
	CacheTTL time.Duration
}

func (s *DefaultAvailabilityService) Query(ctx context.Context, providerID, date string, f Filters) ([]models.SlotSummary, error) {
	cacheKey := fmt.Sprintf("availability:%s:%s:%s:%d", providerID, date, f.ServiceArea, f.MinRemaining)
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.SlotSummary
			if json.Unmarshal([]byte(data), &cached) == nil {
				return cached, nil
			}
		}
	}

	slots, err := s.Slots.GetSlotsByDate(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read slots: %w", err)
	}

	logger := utils.GetLogger()
	summaries := make([]models.SlotSummary, 0, len(slots))
	var countFailures int
	var lastCountErr error
	for _, slot := range slots {
		current, err := s.Bookings.GetBookingCount(ctx, providerID, date, slot.ID)
		if err != nil {
			logger.Error("failed to read booking count, skipping slot",
				zap.String("slotID", slot.ID), zap.Error(err))
			countFailures++
			lastCountErr = err
			continue
		}
		holds := s.Holds.ActiveHoldCount(slot.ID)
		remaining := slot.MaxBookings - current - holds
		if remaining <= 0 {
			continue
		}
		if f.ServiceArea != "" && slot.ServiceArea != f.ServiceArea {
			continue
		}
		if f.MinRemaining > 0 && remaining < f.MinRemaining {
			continue
		}
		summaries = append(summaries, models.SlotSummary{
			ID:        slot.ID,
			Date:      slot.Date,
			Start:     slot.Start,
			End:       slot.End,
			Remaining: remaining,
			Area:      slot.ServiceArea,
		})
	}

	// A partial count outage degrades to fewer slots, but when every read
	// failed the day would look fully booked. That is a store problem, not an
	// availability answer.
	if len(slots) > 0 && countFailures == len(slots) {
		return nil, fmt.Errorf("failed to read booking counts: %w", lastCountErr)
	}

	// Ascending by start time, ties broken by slot id, so the UI and tests
	// see a stable ordering.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Start != summaries[j].Start {
			return summaries[i].Start < summaries[j].Start
		}
		return summaries[i].ID < summaries[j].ID
	})

	if s.Cache != nil {
		if data, err := json.Marshal(summaries); err == nil {
			ttl := s.CacheTTL
			if ttl <= 0 {
				ttl = 10 * time.Second
			}
			if err := s.Cache.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				logger.Warn("failed to cache availability response", zap.Error(err))
			}
		}
	}
	return summaries, nil
}

// ConfirmBookable reports whether a slot still has confirmed-booking
// capacity left. The Hold Manager consults this before granting a hold; soft
// holds are deliberately not counted here, the manager's own table covers
// those.
func (s *DefaultAvailabilityService) ConfirmBookable(ctx context.Context, providerID, serviceID string) error {
	slot, err := s.Slots.GetSlotByID(ctx, providerID, serviceID)
	if err != nil {
		return fmt.Errorf("failed to read slot %s: %w", serviceID, err)
	}
	if slot == nil {
		return ErrSlotUnknown
	}
	current, err := s.Bookings.GetBookingCount(ctx, providerID, slot.Date, slot.ID)
	if err != nil {
		return fmt.Errorf("failed to read booking count for slot %s: %w", serviceID, err)
	}
	if current >= slot.MaxBookings {
		return ErrFullyBooked
	}
	return nil
}

// ErrFullyBooked: every unit of the slot's capacity is already confirmed.
var ErrFullyBooked = errors.New("slot is fully booked")

// ErrSlotUnknown: the referenced slot does not exist (stale or never generated).
var ErrSlotUnknown = errors.New("slot not found")
