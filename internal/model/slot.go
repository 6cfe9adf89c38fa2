package model

// DayType classifies a calendar date for slot-set and price-tier
// selection.  A date on the holiday list is always DayHoliday, no
// matter which weekday it falls on.  Friday keeps its own label even
// when the "Friday as weekend" flag makes it behave like a weekend
// day, so diagnostics still show the real weekday.
type DayType string

const (
	DayWeekday  DayType = "weekday"
	DayFriday   DayType = "friday"
	DaySaturday DayType = "saturday"
	DaySunday   DayType = "sunday"
	DayHoliday  DayType = "holiday"
)

// Weekend reports whether the day type selects the weekend slot list.
// fridayAsWeekend widens the set to include Friday.
func (d DayType) Weekend(fridayAsWeekend bool) bool {
	switch d {
	case DaySaturday, DaySunday, DayHoliday:
		return true
	case DayFriday:
		return fridayAsWeekend
	}
	return false
}

// Slot is a single bookable (date, time) pair.
//
// Fields:
//  Date    – ISO date, e.g. "2025-12-06".
//  Time    – slot time, e.g. "15:00".
//  DayType – classification of Date.
type Slot struct {
	Date    string  `json:"date"`
	Time    string  `json:"time"`
	DayType DayType `json:"dayType"`
}

// TicketType identifies one sellable ticket kind inside a bundle.
type TicketType string

const (
	TicketUnico    TicketType = "unico"
	TicketAdulto   TicketType = "adulto"
	TicketBambino  TicketType = "bambino"
	TicketHandicap TicketType = "handicap"
)

// VariantName returns the customer-facing variant title used on the
// commerce backend for this ticket type.
func (t TicketType) VariantName() string {
	switch t {
	case TicketUnico:
		return "Biglietto unico"
	case TicketAdulto:
		return "Adulto"
	case TicketBambino:
		return "Bambino"
	case TicketHandicap:
		return "Handicap"
	}
	return string(t)
}

// SeatWeight returns how many physical seats one ticket of this type
// consumes.  Handicap tickets reserve an extra seat for an
// accompanying assistant.  This is a policy constant, not derived
// from price data.
func (t TicketType) SeatWeight() int {
	if t == TicketHandicap {
		return 2
	}
	return 1
}

// TicketMode describes the variant composition of a bundle: one
// undivided ticket or the adult/child/assistance split.
type TicketMode string

const (
	ModeUnico  TicketMode = "unico"
	ModeTriple TicketMode = "triple"
)

// TicketTypes lists the ticket types a mode is composed of, in the
// order variants are created on the backend.
func (m TicketMode) TicketTypes() []TicketType {
	switch m {
	case ModeUnico:
		return []TicketType{TicketUnico}
	case ModeTriple:
		return []TicketType{TicketAdulto, TicketBambino, TicketHandicap}
	}
	return nil
}
