package schedule

import (
	"fmt"
	"time"

	"festivo/models"
)

const minutesPerDay = 24 * 60

// ValidationError reports a rejected schedule configuration. Validation runs
// at configuration time; the generator never sees an invalid schedule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a schedule configuration before it is saved.
func Validate(s *models.Schedule) error {
	if s.ProviderID == "" {
		return newValidationError("providerId", "provider id is required")
	}
	if err := validateWindow("dailyWindow", s.DailyWindow); err != nil {
		return err
	}

	seen := make(map[time.Weekday]bool)
	for _, ov := range s.DayOverrides {
		if seen[ov.Day] {
			return newValidationError("dayOverrides", "duplicate override for %s", ov.Day)
		}
		seen[ov.Day] = true
		if err := validateWindow(fmt.Sprintf("dayOverrides[%s]", ov.Day), ov.Window); err != nil {
			return err
		}
	}

	if err := validateBreaks(s); err != nil {
		return err
	}

	if s.RestDay.StartBufferMin < 0 || s.RestDay.EndBufferMin < 0 {
		return newValidationError("restDay", "buffers must not be negative")
	}

	for i, h := range s.Holidays.CustomHolidays {
		if err := validateHoliday(i, h); err != nil {
			return err
		}
	}

	if s.MaxBookings < 0 {
		return newValidationError("maxBookings", "must not be negative")
	}
	return nil
}

func validateWindow(field string, w models.DayWindow) error {
	if w.Start < 0 || w.End > minutesPerDay {
		return newValidationError(field, "window [%d, %d] is outside the day", w.Start, w.End)
	}
	if w.End <= w.Start {
		return newValidationError(field, "end %d must be after start %d", w.End, w.Start)
	}
	return nil
}

// validateBreaks enforces that breaks are valid intervals, mutually disjoint,
// and contained in every working window they apply to.
func validateBreaks(s *models.Schedule) error {
	breaks := s.Breaks
	for i, b := range breaks {
		if b.End <= b.Start {
			return newValidationError("breaks", "break %d ends at %d before it starts at %d", i, b.End, b.Start)
		}
		if !containedIn(b, s.DailyWindow) {
			return newValidationError("breaks", "break [%d, %d] falls outside the daily window [%d, %d]",
				b.Start, b.End, s.DailyWindow.Start, s.DailyWindow.End)
		}
		for _, ov := range s.DayOverrides {
			if !containedIn(b, ov.Window) {
				return newValidationError("breaks", "break [%d, %d] falls outside the %s window [%d, %d]",
					b.Start, b.End, ov.Day, ov.Window.Start, ov.Window.End)
			}
		}
	}
	for i := 0; i < len(breaks); i++ {
		for j := i + 1; j < len(breaks); j++ {
			if breaks[i].Start < breaks[j].End && breaks[j].Start < breaks[i].End {
				return newValidationError("breaks", "breaks [%d, %d] and [%d, %d] overlap",
					breaks[i].Start, breaks[i].End, breaks[j].Start, breaks[j].End)
			}
		}
	}
	return nil
}

func containedIn(b models.BreakWindow, w models.DayWindow) bool {
	return b.Start >= w.Start && b.End <= w.End
}

func validateHoliday(idx int, h models.CustomHoliday) error {
	field := fmt.Sprintf("customHolidays[%d]", idx)
	if h.Recurring {
		if h.Month < time.January || h.Month > time.December {
			return newValidationError(field, "invalid month %d", h.Month)
		}
		if h.Day < 1 || h.Day > 31 {
			return newValidationError(field, "invalid day %d", h.Day)
		}
	} else {
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			return newValidationError(field, "invalid date %q", h.Date)
		}
	}
	if !h.IsFullDay {
		if h.PartialWindow == nil {
			return newValidationError(field, "partial-day holiday requires a partial window")
		}
		if err := validateWindow(field, *h.PartialWindow); err != nil {
			return err
		}
	}
	return nil
}
