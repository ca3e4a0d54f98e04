// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"festivo/database"
	"festivo/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrCapacityExceeded is returned when a conditional booking increment would
// push a slot past its maximum capacity. Terminal for that attempt; the
// caller should re-run the availability query.
var ErrCapacityExceeded = errors.New("slot capacity exceeded")

// ErrSlotNotFound is returned when the referenced slot does not exist.
var ErrSlotNotFound = errors.New("slot not found")

// ErrBookingNotFound is returned when no confirmed booking matches the id.
var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	// GetBookingCount reads the confirmed booking count for a slot.
	GetBookingCount(ctx context.Context, providerID, date, slotID string) (int, error)
	// IncrementBookingCount atomically adds to a slot's confirmed count,
	// failing with ErrCapacityExceeded if the result would exceed capacity.
	IncrementBookingCount(ctx context.Context, providerID, date, slotID string, by int) error
	// DecrementBookingCount rolls back a confirmed increment, flooring at zero.
	DecrementBookingCount(ctx context.Context, providerID, date, slotID string, by int) error
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	// CancelBooking flips a confirmed booking to cancelled, failing with
	// ErrBookingNotFound when no confirmed booking matches.
	CancelBooking(ctx context.Context, bookingID string) error
}

type mongoBookingRepo struct {
	slots    *mongo.Collection
	bookings *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository. Confirmed
// counts live on the slot documents so the capacity check and the increment
// are a single conditional update.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("festivo")
	return &mongoBookingRepo{
		slots:    db.Collection("slots"),
		bookings: db.Collection("bookings"),
	}
}
