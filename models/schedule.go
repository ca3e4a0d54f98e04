package models

import "time"

// DayWindow is a working window within a single day.
// Start and End are minutes from midnight (e.g., 540 for 9:00 AM).
type DayWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// BreakWindow is a non-bookable interval inside a day's working window.
type BreakWindow struct {
	Start  int    `bson:"start" json:"start"`
	End    int    `bson:"end" json:"end"`
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"` // e.g., "lunch"
}

// DayOverride replaces the default daily window for one weekday
// (e.g., a shortened Friday).
type DayOverride struct {
	Day    time.Weekday `bson:"day" json:"day"`
	Window DayWindow    `bson:"window" json:"window"`
}

// RestDayPolicy describes a provider's weekly rest observance. When observed,
// the rest day is fully excluded from slot generation, widened by the buffers
// on either side.
type RestDayPolicy struct {
	ObserveWeeklyRest bool         `bson:"observeWeeklyRest" json:"observeWeeklyRest"`
	WeeklyRestDay     time.Weekday `bson:"weeklyRestDay" json:"weeklyRestDay"`
	StartBufferMin    int          `bson:"startBufferMin,omitempty" json:"startBufferMin,omitempty"` // minutes before the rest day begins
	EndBufferMin      int          `bson:"endBufferMin,omitempty" json:"endBufferMin,omitempty"`     // minutes after the rest day ends
}

// CustomHoliday is a provider-defined holiday. Either an exact date
// ("2006-01-02") or a recurring month/day pair that matches every year.
// A partial-day holiday truncates the working window instead of excluding
// the whole date.
type CustomHoliday struct {
	Name          string     `bson:"name,omitempty" json:"name,omitempty"`
	Date          string     `bson:"date,omitempty" json:"date,omitempty"` // exact date, empty when recurring
	Month         time.Month `bson:"month,omitempty" json:"month,omitempty"`
	Day           int        `bson:"day,omitempty" json:"day,omitempty"`
	Recurring     bool       `bson:"recurring" json:"recurring"`
	IsFullDay     bool       `bson:"isFullDay" json:"isFullDay"`
	PartialWindow *DayWindow `bson:"partialWindow,omitempty" json:"partialWindow,omitempty"` // bookable window on a partial-day holiday
}

// HolidayPolicy controls which holiday sets a provider observes.
type HolidayPolicy struct {
	ObserveFixed   bool            `bson:"observeFixed" json:"observeFixed"`
	ObserveCustom  bool            `bson:"observeCustom" json:"observeCustom"`
	CustomHolidays []CustomHoliday `bson:"customHolidays,omitempty" json:"customHolidays,omitempty"`
}

// Schedule is a provider's recurring weekly working pattern. It is mutated
// only through the provider configuration flow and is the sole input to
// slot generation.
type Schedule struct {
	ProviderID   string         `bson:"providerId" json:"providerId"`
	WorkingDays  []time.Weekday `bson:"workingDays" json:"workingDays"`
	DailyWindow  DayWindow      `bson:"dailyWindow" json:"dailyWindow"`
	DayOverrides []DayOverride  `bson:"dayOverrides,omitempty" json:"dayOverrides,omitempty"`
	Breaks       []BreakWindow  `bson:"breaks,omitempty" json:"breaks,omitempty"`
	RestDay      RestDayPolicy  `bson:"restDay" json:"restDay"`
	Holidays     HolidayPolicy  `bson:"holidays" json:"holidays"`
	MaxBookings  int            `bson:"maxBookings,omitempty" json:"maxBookings,omitempty"` // per-slot concurrency limit; 0 means default (1)
	ServiceArea  string         `bson:"serviceArea,omitempty" json:"serviceArea,omitempty"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// WindowFor returns the working window for the given weekday, applying any
// per-day override.
func (s *Schedule) WindowFor(day time.Weekday) DayWindow {
	for _, ov := range s.DayOverrides {
		if ov.Day == day {
			return ov.Window
		}
	}
	return s.DailyWindow
}

// WorksOn reports whether the weekday is one of the provider's working days.
func (s *Schedule) WorksOn(day time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}
