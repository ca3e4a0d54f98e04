package schedule

import (
	"fmt"
	"time"

	"festivo/models"
)

// DefaultHorizonDays is the rolling generation horizon when none is configured.
const DefaultHorizonDays = 30

// GenerateSlots expands a provider's schedule into concrete dated slots over
// the horizon starting at referenceDate. The schedule is assumed valid
// (see Validate); generation itself has no error path beyond an empty result.
func GenerateSlots(s *models.Schedule, horizonDays int, referenceDate time.Time) []models.AvailabilitySlot {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	maxBookings := s.MaxBookings
	if maxBookings < 1 {
		maxBookings = 1
	}

	refMidnight := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(),
		0, 0, 0, 0, referenceDate.Location())

	var slots []models.AvailabilitySlot
	for offset := 0; offset < horizonDays; offset++ {
		day := refMidnight.AddDate(0, 0, offset)
		if !s.WorksOn(day.Weekday()) {
			continue
		}
		if restDayExcludes(s, day) {
			continue
		}
		fullDay, partial := holidayFor(s, day)
		if fullDay {
			continue
		}

		window := s.WindowFor(day.Weekday())
		if partial != nil {
			window = intersect(window, *partial)
		}
		if window.End <= window.Start {
			continue
		}

		dateStr := day.Format("2006-01-02")
		for _, iv := range subtractBreaks(window, s.Breaks) {
			slots = append(slots, models.AvailabilitySlot{
				ID:          slotID(s.ProviderID, dateStr, iv.Start),
				ProviderID:  s.ProviderID,
				Date:        dateStr,
				Start:       iv.Start,
				End:         iv.End,
				MaxBookings: maxBookings,
				ServiceArea: s.ServiceArea,
			})
		}
	}
	return slots
}

// slotID is deterministic so regeneration keeps identifiers stable and slot
// ordering ties break consistently.
func slotID(providerID, date string, start int) string {
	return fmt.Sprintf("%s:%s:%04d", providerID, date, start)
}

// restDayExcludes reports whether the date falls inside the buffered weekly
// rest window. The buffers widen the rest day on either side, so a date is
// excluded when any part of it overlaps the widened window.
func restDayExcludes(s *models.Schedule, day time.Time) bool {
	if !s.RestDay.ObserveWeeklyRest {
		return false
	}
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	// Check rest-day occurrences in the surrounding two weeks; buffers are
	// short relative to a week, so this covers every occurrence that could
	// reach the date.
	for delta := -7; delta <= 7; delta++ {
		occ := day.AddDate(0, 0, delta)
		if occ.Weekday() != s.RestDay.WeeklyRestDay {
			continue
		}
		windowStart := occ.Add(-time.Duration(s.RestDay.StartBufferMin) * time.Minute)
		windowEnd := occ.AddDate(0, 0, 1).Add(time.Duration(s.RestDay.EndBufferMin) * time.Minute)
		if dayStart.Before(windowEnd) && windowStart.Before(dayEnd) {
			return true
		}
	}
	return false
}

func intersect(a, b models.DayWindow) models.DayWindow {
	w := a
	if b.Start > w.Start {
		w.Start = b.Start
	}
	if b.End < w.End {
		w.End = b.End
	}
	return w
}

// subtractBreaks splits the working window around each break, producing the
// bookable sub-intervals. A break covering the whole window yields nothing.
func subtractBreaks(window models.DayWindow, breaks []models.BreakWindow) []models.DayWindow {
	intervals := []models.DayWindow{window}
	for _, b := range breaks {
		var next []models.DayWindow
		for _, iv := range intervals {
			if b.End <= iv.Start || b.Start >= iv.End {
				next = append(next, iv)
				continue
			}
			if b.Start > iv.Start {
				next = append(next, models.DayWindow{Start: iv.Start, End: b.Start})
			}
			if b.End < iv.End {
				next = append(next, models.DayWindow{Start: b.End, End: iv.End})
			}
		}
		intervals = next
	}
	return intervals
}
