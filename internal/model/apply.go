package model

// ApplyInput is the manual-range batch request: generate every slot
// between StartDate and EndDate (inclusive) and reconcile seat units
// and bundles for each.
//
// Fields:
//  Event           – stable handle of the event, used in identity keys.
//  TitleBase       – base string for product titles, e.g. "Visita Guidata".
//  StartDate       – first date of the range, ISO format.
//  EndDate         – last date of the range, inclusive.
//  WeekdaySlots    – slot times used on weekday dates.
//  WeekendSlots    – slot times used on saturday/sunday/holiday dates
//                    (and Friday when FridayAsWeekend is set).
//  Capacity        – seats available per slot; applied as an absolute
//                    inventory quantity, not an increment.
//  Prices          – price table keyed by day type.
//  Exceptions      – per-date tier overrides; an exception always wins.
//  FridayAsWeekend – treat Friday as a weekend day for slots and prices.
//  Tags            – extra product tags beyond the reserved ones.
//  Description     – optional product description HTML.
//  TemplateSuffix  – optional theme template override.
//  DryRun          – preview only, no backend mutations.
type ApplyInput struct {
	Event           string                `json:"event"`
	TitleBase       string                `json:"titleBase"`
	StartDate       string                `json:"startDate"`
	EndDate         string                `json:"endDate"`
	WeekdaySlots    []string              `json:"weekdaySlots"`
	WeekendSlots    []string              `json:"weekendSlots"`
	Capacity        int                   `json:"capacity"`
	Prices          PriceTable            `json:"prices"`
	Exceptions      map[string]*PriceTier `json:"exceptions,omitempty"`
	FridayAsWeekend bool                  `json:"fridayAsWeekend"`
	Tags            []string              `json:"tags,omitempty"`
	Description     string                `json:"description,omitempty"`
	TemplateSuffix  string                `json:"templateSuffix,omitempty"`
	DryRun          bool                  `json:"dryRun"`
}

// FeedSlot is one entry of a pre-built external slot feed.  Variants,
// when present, carries bundle variant ids already resolved upstream,
// keyed by ticket type.
type FeedSlot struct {
	Date     string                `json:"date"`
	Time     string                `json:"time"`
	DayType  DayType               `json:"dayType,omitempty"`
	Variants map[TicketType]string `json:"variants,omitempty"`
}

// ImportInput is the external-feed ingestion request.  Exactly one of
// FeedURL or Slots should be provided; when FeedURL is set the feed
// is fetched before the batch starts.  Ticket mode is forced to the
// triple composition on this path.
type ImportInput struct {
	Event           string                `json:"event"`
	TitleBase       string                `json:"titleBase"`
	FeedURL         string                `json:"feedUrl,omitempty"`
	Slots           []FeedSlot            `json:"slots,omitempty"`
	Capacity        int                   `json:"capacity"`
	Prices          PriceTable            `json:"prices"`
	Exceptions      map[string]*PriceTier `json:"exceptions,omitempty"`
	FridayAsWeekend bool                  `json:"fridayAsWeekend"`
	Tags            []string              `json:"tags,omitempty"`
	Description     string                `json:"description,omitempty"`
	TemplateSuffix  string                `json:"templateSuffix,omitempty"`
	DryRun          bool                  `json:"dryRun"`
}

// Summary accumulates what a batch actually did.  On a repeated run
// over identical input every creation counter stays at zero while
// inventory/price counters still reflect the convergence writes.
type Summary struct {
	SeatsCreated          int `json:"seatsCreated"`
	BundlesCreated        int `json:"bundlesCreated"`
	VariantsCreated       int `json:"variantsCreated"`
	InventoryAdjusted     int `json:"inventoryAdjusted"`
	RelationshipsUpserted int `json:"relationshipsUpserted"`
	PricesUpdated         int `json:"pricesUpdated"`
}

// PreviewEntry describes one processed slot for the bounded preview.
type PreviewEntry struct {
	Date    string     `json:"date"`
	Time    string     `json:"time"`
	DayType DayType    `json:"dayType"`
	Mode    TicketMode `json:"mode,omitempty"`
	Tier    *PriceTier `json:"tier,omitempty"`
	Warning string     `json:"warning,omitempty"`
}

// ApplyResult is the response of both batch paths.
type ApplyResult struct {
	OK       bool           `json:"ok"`
	DryRun   bool           `json:"dryRun"`
	Summary  Summary        `json:"summary"`
	Preview  []PreviewEntry `json:"preview"`
	Warnings []string       `json:"warnings"`
}
