package model

// CalendarSlot is one slot of the public month feed.  Variants maps
// ticket type to the backend variant id the storefront adds to cart.
type CalendarSlot struct {
	Time     string                `json:"time"`
	Variants map[TicketType]string `json:"variants,omitempty"`
}

// CalendarDay groups the slots of a single date.
type CalendarDay struct {
	Date    string         `json:"date"`
	DayType DayType        `json:"dayType"`
	Slots   []CalendarSlot `json:"slots"`
}

// CalendarFeed is the month view assembled from tagged bundle
// products: days sorted by date, slots sorted by time.
type CalendarFeed struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}
