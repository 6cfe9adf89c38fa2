package model

import "strings"

// Reserved marker tags distinguishing the two product families on
// the backend catalog.
const (
	TagSeatUnit = "Seat Unit"
	TagBundle   = "Bundle"
)

// Product titles are the identity keys used against the backend
// catalog: lookups reconstruct the exact title and search for it, so
// the format here must never change once products exist.
const titleSep = " - "

// SeatUnitTitle builds the per-date seat unit product title.
// One seat unit product exists per date; its variants carry the times.
func SeatUnitTitle(titleBase, date string) string {
	return titleBase + titleSep + date
}

// BundleTitle builds the per-slot bundle product title.
func BundleTitle(titleBase, date, slotTime string) string {
	return titleBase + titleSep + date + titleSep + slotTime
}

// ParseBundleTitle recovers (date, time) from a bundle product title.
// The time is the last separator-delimited segment and must look like
// HH:MM; the date is the segment before it.
func ParseBundleTitle(title string) (date, slotTime string, ok bool) {
	parts := strings.Split(title, titleSep)
	if len(parts) < 3 {
		return "", "", false
	}
	slotTime = parts[len(parts)-1]
	date = parts[len(parts)-2]
	if len(slotTime) != 5 || slotTime[2] != ':' {
		return "", "", false
	}
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return "", "", false
	}
	return date, slotTime, true
}
