package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "festivo/database/repository/booking"
	"festivo/models"
	"festivo/services/availability"
	"festivo/services/hold"
	"festivo/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldAccess is the slice of the Hold Manager the confirmation path needs.
type HoldAccess interface {
	GetHold(holdID string) *models.SoftHold
	ReleaseHold(holdID string)
}

// ConfirmationService converts an active soft hold into a durable booking and
// cancels bookings, returning the capacity to the slot.
type ConfirmationService interface {
	ConfirmBooking(ctx context.Context, holdID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// DefaultConfirmationService performs the conversion against the durable
// store. The store's conditional increment is what actually prevents
// overbooking at confirmation time; the soft hold only made it unlikely two
// users got this far together.
type DefaultConfirmationService struct {
	Holds HoldAccess
	Slots availability.SlotReader
	Store bookingRepo.BookingRepository
	Clock utils.Clock
}

func (s *DefaultConfirmationService) ConfirmBooking(ctx context.Context, holdID string) (*models.Booking, error) {
	h := s.Holds.GetHold(holdID)
	if h == nil {
		return nil, hold.ErrHoldNotFound
	}
	clock := s.Clock
	if clock == nil {
		clock = utils.SystemClock()
	}
	if !h.IsActive || !h.ExpiresAt.After(clock.Now()) {
		return nil, hold.ErrHoldInactive
	}

	slot, err := s.Slots.GetSlotByID(ctx, h.ProviderID, h.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot for hold %s: %w", holdID, err)
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %s no longer exists", h.ServiceID)
	}

	// Capacity is enforced here, atomically, by the store.
	if err := s.Store.IncrementBookingCount(ctx, h.ProviderID, slot.Date, slot.ID, 1); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:         uuid.New().String(),
		ProviderID: h.ProviderID,
		SlotID:     slot.ID,
		HolderID:   h.HolderID,
		Date:       slot.Date,
		Start:      slot.Start,
		End:        slot.End,
		Status:     "confirmed",
	}
	if err := s.Store.CreateBooking(ctx, b); err != nil {
		// Undo the counter so the slot is not leaked as booked.
		if rbErr := s.Store.DecrementBookingCount(ctx, h.ProviderID, slot.Date, slot.ID, 1); rbErr != nil {
			utils.GetLogger().Error("failed to roll back booking count",
				zap.String("slotID", slot.ID), zap.Error(rbErr))
		}
		return nil, fmt.Errorf("failed to record booking: %w", err)
	}

	// Conversion deactivates the hold; release is idempotent so a racing
	// expiry sweep is harmless here.
	s.Holds.ReleaseHold(holdID)

	utils.GetLogger().Info("hold converted to booking",
		zap.String("holdID", holdID),
		zap.String("bookingID", b.ID),
		zap.String("slotID", slot.ID))
	return b, nil
}

// CancelBooking cancels a confirmed booking and returns its unit of capacity
// to the slot. Cancelling an already-cancelled booking is a no-op.
func (s *DefaultConfirmationService) CancelBooking(ctx context.Context, bookingID string) error {
	b, err := s.Store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Status == "cancelled" {
		return nil
	}

	if err := s.Store.CancelBooking(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			// A concurrent cancel won the conditional update; the capacity was
			// already returned.
			return nil
		}
		return err
	}
	if err := s.Store.DecrementBookingCount(ctx, b.ProviderID, b.Date, b.SlotID, 1); err != nil {
		utils.GetLogger().Error("failed to return cancelled capacity",
			zap.String("bookingID", bookingID),
			zap.String("slotID", b.SlotID),
			zap.Error(err))
		return err
	}

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingID", bookingID),
		zap.String("slotID", b.SlotID))
	return nil
}
