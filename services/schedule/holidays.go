package schedule

import (
	"time"

	"festivo/models"
)

// fixedHolidays are the full-day public holidays applied when a provider
// opts into fixed holiday observance.
var fixedHolidays = []models.CustomHoliday{
	{Name: "New Year's Day", Recurring: true, Month: time.January, Day: 1, IsFullDay: true},
	{Name: "Labour Day", Recurring: true, Month: time.May, Day: 1, IsFullDay: true},
	{Name: "Christmas Day", Recurring: true, Month: time.December, Day: 25, IsFullDay: true},
	{Name: "Boxing Day", Recurring: true, Month: time.December, Day: 26, IsFullDay: true},
}

// HolidayMatches reports whether a holiday rule covers the given date.
// Recurring rules compare month and day, ignoring the year; exact rules
// compare the full date. A rule that never matches is simply inert.
func HolidayMatches(h models.CustomHoliday, date time.Time) bool {
	if h.Recurring {
		return date.Month() == h.Month && date.Day() == h.Day
	}
	return h.Date == date.Format("2006-01-02")
}

// holidayFor resolves the holiday effect on a date: fullDay excludes the
// whole date, a non-nil partial truncates the working window instead.
// A full-day match wins over any partial match on the same date.
func holidayFor(s *models.Schedule, date time.Time) (fullDay bool, partial *models.DayWindow) {
	if s.Holidays.ObserveFixed {
		for _, h := range fixedHolidays {
			if HolidayMatches(h, date) {
				return true, nil
			}
		}
	}
	if s.Holidays.ObserveCustom {
		for _, h := range s.Holidays.CustomHolidays {
			if !HolidayMatches(h, date) {
				continue
			}
			if h.IsFullDay {
				return true, nil
			}
			if h.PartialWindow != nil {
				w := *h.PartialWindow
				partial = &w
			}
		}
	}
	return false, partial
}
