package models

// AvailabilitySlot is a concrete, dated, capacity-bounded booking window
// derived from a provider's Schedule. Slots are regenerated whenever the
// schedule changes and are never hand-edited.
type AvailabilitySlot struct {
	ID              string `bson:"id" json:"id"`
	ProviderID      string `bson:"providerId" json:"providerId"`
	Date            string `bson:"date" json:"date"`   // "2006-01-02"
	Start           int    `bson:"start" json:"start"` // minutes from midnight
	End             int    `bson:"end" json:"end"`
	MaxBookings     int    `bson:"maxBookings" json:"maxBookings"`
	CurrentBookings int    `bson:"currentBookings" json:"currentBookings"`
	ActiveSoftHolds int    `bson:"-" json:"activeSoftHolds"` // advisory, in-process only
	ServiceArea     string `bson:"serviceArea,omitempty" json:"serviceArea,omitempty"`
}

// SlotSummary is the availability view returned to the booking UI.
// Remaining already accounts for confirmed bookings and active soft holds.
type SlotSummary struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Remaining int    `json:"remaining"`
	Area      string `json:"area,omitempty"`
}
