package models

import "time"

// HoldReason records why a caller asked for a soft hold.
type HoldReason string

const (
	HoldReasonBooking      HoldReason = "booking_process"
	HoldReasonComparison   HoldReason = "comparison"
	HoldReasonConsultation HoldReason = "consultation"
)

// SoftHold is a short-lived, non-durable exclusive claim on a bookable
// service/slot. At most one active, unexpired hold exists per service ID.
// A hold deactivates exactly once: explicit release, conversion to a
// booking, or automatic expiry.
type SoftHold struct {
	ID         string     `json:"id"`
	ServiceID  string     `json:"serviceId"`
	ProviderID string     `json:"providerId"`
	HolderID   string     `json:"holderId"`
	Reason     HoldReason `json:"reason"`
	StartTime  time.Time  `json:"startTime"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	IsActive   bool       `json:"isActive"`
}

// CreateHoldRequest is the payload for acquiring a soft hold.
type CreateHoldRequest struct {
	ServiceID  string     `json:"serviceId" binding:"required"`
	ProviderID string     `json:"providerId" binding:"required"`
	HolderID   string     `json:"holderId" binding:"required"`
	Reason     HoldReason `json:"reason"`
}

// ExtendHoldRequest pushes a hold's expiry forward.
type ExtendHoldRequest struct {
	AdditionalSeconds int `json:"additionalSeconds" binding:"required"`
}
