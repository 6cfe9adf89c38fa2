// Package calendar provides the pure date logic of the reconciliation
// engine: day-type classification and slot enumeration.  Nothing here
// performs I/O; the holiday set is supplied by the caller (it lives in
// a shop metafield on the commerce backend).
package calendar

import (
	"fmt"
	"time"

	"github.com/ecomslots/slotsync/internal/model"
)

// DateLayout is the ISO date format used everywhere in this service.
const DateLayout = "2006-01-02"

// All weekday math happens in the shop's reference timezone, never in
// the host's local zone, so a container running in UTC classifies
// dates the same way as one running in Rome.
var refZone = loadRefZone()

func loadRefZone() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return time.FixedZone("CET", 60*60)
	}
	return loc
}

// HolidaySet is a set of ISO dates that classify as holidays.
type HolidaySet map[string]bool

// ParseDate parses an ISO date in the reference timezone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, refZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Classify maps a date to its day type.  Membership in the holiday
// set is checked before any weekday logic, so a holiday falling on a
// Saturday is still a holiday.  An unparseable date classifies as a
// plain weekday; callers validate dates before relying on the result.
func Classify(date string, holidays HolidaySet) model.DayType {
	if holidays[date] {
		return model.DayHoliday
	}
	t, err := ParseDate(date)
	if err != nil {
		return model.DayWeekday
	}
	switch t.Weekday() {
	case time.Saturday:
		return model.DaySaturday
	case time.Sunday:
		return model.DaySunday
	case time.Friday:
		return model.DayFriday
	}
	return model.DayWeekday
}

// EnumerateSlots expands an inclusive date range into the ordered
// slot sequence to reconcile: one date at a time in calendar order,
// times in the order of the configured list for that date's effective
// slot set.  Saturday, Sunday, holidays and (with fridayAsWeekend)
// Friday use weekendSlots; every other date uses weekdaySlots.  The
// same inputs always produce the same sequence.
func EnumerateSlots(startDate, endDate string, weekdaySlots, weekendSlots []string, fridayAsWeekend bool, holidays HolidaySet) ([]model.Slot, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	var slots []model.Slot
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		dayType := Classify(date, holidays)
		times := weekdaySlots
		if dayType.Weekend(fridayAsWeekend) {
			times = weekendSlots
		}
		for _, tm := range times {
			slots = append(slots, model.Slot{Date: date, Time: tm, DayType: dayType})
		}
	}
	return slots, nil
}

// Month returns the "YYYY-MM" prefix of an ISO date.
func Month(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
