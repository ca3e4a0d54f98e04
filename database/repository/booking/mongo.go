// File: database/repository/booking/mongo.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"festivo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// withRetry runs op and retries once after a short backoff on failure.
// Transient store hiccups are common enough that a single retry is worth it;
// anything beyond that surfaces to the caller.
func withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil || err == ErrCapacityExceeded || err == ErrSlotNotFound || err == ErrBookingNotFound {
		return err
	}
	select {
	case <-time.After(200 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	return op(ctx)
}

func (r *mongoBookingRepo) GetBookingCount(ctx context.Context, providerID, date, slotID string) (int, error) {
	var doc struct {
		CurrentBookings int `bson:"currentBookings"`
	}
	err := withRetry(ctx, func(ctx context.Context) error {
		err := r.slots.FindOne(ctx, bson.M{
			"providerId": providerID,
			"date":       date,
			"id":         slotID,
		}).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			return ErrSlotNotFound
		}
		return err
	})
	if err != nil {
		if err == ErrSlotNotFound {
			return 0, ErrSlotNotFound
		}
		return 0, fmt.Errorf("failed to read booking count for slot %s: %w", slotID, err)
	}
	return doc.CurrentBookings, nil
}

func (r *mongoBookingRepo) IncrementBookingCount(ctx context.Context, providerID, date, slotID string, by int) error {
	if by <= 0 {
		return fmt.Errorf("increment must be positive, got %d", by)
	}
	// The capacity check and the increment are one conditional update so two
	// concurrent confirmations cannot both pass the check.
	filter := bson.M{
		"providerId": providerID,
		"date":       date,
		"id":         slotID,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$currentBookings", by}},
				"$maxBookings",
			},
		},
	}
	update := bson.M{"$inc": bson.M{"currentBookings": by}}

	return withRetry(ctx, func(ctx context.Context) error {
		res, err := r.slots.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to increment booking count for slot %s: %w", slotID, err)
		}
		if res.MatchedCount == 0 {
			// Either the slot is gone or the increment would overflow capacity.
			count, cErr := r.slots.CountDocuments(ctx, bson.M{"providerId": providerID, "date": date, "id": slotID})
			if cErr == nil && count == 0 {
				return ErrSlotNotFound
			}
			return ErrCapacityExceeded
		}
		return nil
	})
}

func (r *mongoBookingRepo) DecrementBookingCount(ctx context.Context, providerID, date, slotID string, by int) error {
	if by <= 0 {
		return fmt.Errorf("decrement must be positive, got %d", by)
	}
	filter := bson.M{
		"providerId":      providerID,
		"date":            date,
		"id":              slotID,
		"currentBookings": bson.M{"$gte": by},
	}
	update := bson.M{"$inc": bson.M{"currentBookings": -by}}
	return withRetry(ctx, func(ctx context.Context) error {
		if _, err := r.slots.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("failed to decrement booking count for slot %s: %w", slotID, err)
		}
		return nil
	})
}

func (r *mongoBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	booking.CreatedAt = time.Now()
	if booking.Status == "" {
		booking.Status = "confirmed"
	}
	return withRetry(ctx, func(ctx context.Context) error {
		_, err := r.bookings.InsertOne(ctx, booking)
		if err != nil {
			return fmt.Errorf("failed to create booking %s: %w", booking.ID, err)
		}
		return nil
	})
}

func (r *mongoBookingRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		err := r.bookings.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b)
		if err == mongo.ErrNoDocuments {
			return ErrBookingNotFound
		}
		return err
	})
	if err != nil {
		if err == ErrBookingNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking %s: %w", bookingID, err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) CancelBooking(ctx context.Context, bookingID string) error {
	// Only a confirmed booking can be cancelled; a matched count of zero means
	// it does not exist or was already cancelled.
	return withRetry(ctx, func(ctx context.Context) error {
		res, err := r.bookings.UpdateOne(ctx,
			bson.M{"id": bookingID, "status": "confirmed"},
			bson.M{"$set": bson.M{"status": "cancelled"}},
		)
		if err != nil {
			return fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
		}
		if res.MatchedCount == 0 {
			return ErrBookingNotFound
		}
		return nil
	})
}
