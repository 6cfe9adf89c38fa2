package model

// PriceTier is a partial mapping from ticket type to a euro price.
// Nil fields mean "not configured"; which fields are set determines
// the ticket mode of the bundles priced by this tier.
type PriceTier struct {
	Unico    *float64 `json:"unico,omitempty"`
	Adulto   *float64 `json:"adulto,omitempty"`
	Bambino  *float64 `json:"bambino,omitempty"`
	Handicap *float64 `json:"handicap,omitempty"`
}

// Price returns the configured euro price for a ticket type, or
// (0, false) when the tier does not define it.
func (t *PriceTier) Price(tt TicketType) (float64, bool) {
	if t == nil {
		return 0, false
	}
	var p *float64
	switch tt {
	case TicketUnico:
		p = t.Unico
	case TicketAdulto:
		p = t.Adulto
	case TicketBambino:
		p = t.Bambino
	case TicketHandicap:
		p = t.Handicap
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// WeekdayTier is the generic Monday–Thursday tier.  The embedded
// PriceTier applies to any weekday without its own override; the
// per-day fields override it for one specific weekday.
type WeekdayTier struct {
	PriceTier
	Lunedi    *PriceTier `json:"lunedi,omitempty"`
	Martedi   *PriceTier `json:"martedi,omitempty"`
	Mercoledi *PriceTier `json:"mercoledi,omitempty"`
	Giovedi   *PriceTier `json:"giovedi,omitempty"`
}

// PriceTable maps day types to their price tiers.  Any tier may be
// absent; resolution rules (including the Friday fallback chain) live
// in the pricing package.
type PriceTable struct {
	Feriali  *WeekdayTier `json:"feriali,omitempty"`
	Venerdi  *PriceTier   `json:"venerdi,omitempty"`
	Sabato   *PriceTier   `json:"sabato,omitempty"`
	Domenica *PriceTier   `json:"domenica,omitempty"`
	Festivi  *PriceTier   `json:"festivi,omitempty"`
}
