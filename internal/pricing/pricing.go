// Package pricing resolves the applicable price tier for a slot and
// derives the ticket composition mode from it.  Both functions are
// pure: absence of a configured price is signalled with nil / empty
// values, never with an error, and the batch orchestrator turns that
// into a per-slot warning.
package pricing

import (
	"time"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/model"
)

// ResolveTier selects the price tier for a date.  Resolution order,
// first match wins:
//
//  1. exact per-date exception
//  2. day-type tier (holiday/saturday/sunday), no fallback
//  3. friday: with fridayAsWeekend the chain is
//     saturday -> sunday -> holiday -> generic weekday;
//     without it, friday tier -> generic weekday
//  4. weekday: per-weekday override (Mon-Thu) when defined,
//     otherwise the generic weekday tier
//
// A nil result means no price is configured for this slot.
func ResolveTier(date string, dayType model.DayType, table model.PriceTable, fridayAsWeekend bool, exceptions map[string]*model.PriceTier) *model.PriceTier {
	if t, ok := exceptions[date]; ok && t != nil {
		return t
	}

	switch dayType {
	case model.DayHoliday:
		return table.Festivi
	case model.DaySaturday:
		return table.Sabato
	case model.DaySunday:
		return table.Domenica
	case model.DayFriday:
		if fridayAsWeekend {
			for _, t := range []*model.PriceTier{table.Sabato, table.Domenica, table.Festivi, genericWeekday(table)} {
				if t != nil {
					return t
				}
			}
			return nil
		}
		if table.Venerdi != nil {
			return table.Venerdi
		}
		return genericWeekday(table)
	}

	return weekdayTier(date, table)
}

// weekdayTier resolves a Monday-Thursday date, honoring the per-day
// overrides inside the generic weekday tier.
func weekdayTier(date string, table model.PriceTable) *model.PriceTier {
	if table.Feriali == nil {
		return nil
	}
	if d, err := calendar.ParseDate(date); err == nil {
		var override *model.PriceTier
		switch d.Weekday() {
		case time.Monday:
			override = table.Feriali.Lunedi
		case time.Tuesday:
			override = table.Feriali.Martedi
		case time.Wednesday:
			override = table.Feriali.Mercoledi
		case time.Thursday:
			override = table.Feriali.Giovedi
		}
		if override != nil {
			return override
		}
	}
	return &table.Feriali.PriceTier
}

func genericWeekday(table model.PriceTable) *model.PriceTier {
	if table.Feriali == nil {
		return nil
	}
	return &table.Feriali.PriceTier
}

// DecideMode turns a resolved tier into a ticket mode.  A numeric
// unico price always wins, even when adulto/bambino/handicap are also
// present; any of the three typed prices selects the triple split.
// An empty result means the slot has no sellable composition.
func DecideMode(tier *model.PriceTier) model.TicketMode {
	if tier == nil {
		return ""
	}
	if tier.Unico != nil {
		return model.ModeUnico
	}
	if tier.Adulto != nil || tier.Bambino != nil || tier.Handicap != nil {
		return model.ModeTriple
	}
	return ""
}
