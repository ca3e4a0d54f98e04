package models

import "time"

// Booking is a confirmed, durable booking record produced by converting a
// soft hold at checkout completion.
type Booking struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	SlotID     string    `bson:"slot_id" json:"slot_id"`
	HolderID   string    `bson:"holder_id" json:"holder_id"`
	Date       string    `bson:"date" json:"date"` // "2006-01-02"
	Start      int       `bson:"start" json:"start"`
	End        int       `bson:"end" json:"end"`
	Status     string    `bson:"status" json:"status"` // "confirmed", "cancelled"
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// ConfirmBookingRequest converts an active hold into a durable booking.
type ConfirmBookingRequest struct {
	HoldID string `json:"holdId" binding:"required"`
}
