// Package feed assembles the read-only calendar of available slots
// from the bundle products already created by the reconciliation
// engine, and fetches pre-built slot feeds from an upstream source.
package feed

import (
	"context"
	"sort"
	"strings"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/model"
)

// Source is the slice of the catalog client the assembler reads from.
type Source interface {
	ListCollectionProducts(ctx context.Context, collectionHandle, tag string) ([]catalog.Product, error)
	FindProductByTitleAndTag(ctx context.Context, title, tag string) (string, error)
	ListVariants(ctx context.Context, productID string) ([]catalog.Variant, error)
	HolidayDates(ctx context.Context) (calendar.HolidaySet, error)
}

var _ Source = (*catalog.Client)(nil)

// classifyVariant buckets a bundle variant into a ticket type by name
// substring.  Unknown names are dropped from the feed.
func classifyVariant(title string) (model.TicketType, bool) {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "unico"):
		return model.TicketUnico, true
	case strings.Contains(t, "adulto"):
		return model.TicketAdulto, true
	case strings.Contains(t, "bambino"):
		return model.TicketBambino, true
	case strings.Contains(t, "handicap"):
		return model.TicketHandicap, true
	}
	return "", false
}

// AssembleMonth builds the month calendar from the tagged bundle
// products of a collection.  Titles encode (date, time); products
// whose title does not parse, or that fall outside the month, are
// skipped.  Days are sorted by date and slots by time.
func AssembleMonth(ctx context.Context, src Source, collectionHandle, month string) (model.CalendarFeed, error) {
	products, err := src.ListCollectionProducts(ctx, collectionHandle, model.TagBundle)
	if err != nil {
		return model.CalendarFeed{}, err
	}
	holidays, err := src.HolidayDates(ctx)
	if err != nil {
		return model.CalendarFeed{}, err
	}

	days := map[string]*model.CalendarDay{}
	for _, p := range products {
		date, slotTime, ok := model.ParseBundleTitle(p.Title)
		if !ok || calendar.Month(date) != month {
			continue
		}
		variants := map[model.TicketType]string{}
		for _, v := range p.Variants {
			if tt, ok := classifyVariant(v.Title); ok {
				variants[tt] = v.ID
			}
		}
		day, ok := days[date]
		if !ok {
			day = &model.CalendarDay{Date: date, DayType: calendar.Classify(date, holidays)}
			days[date] = day
		}
		day.Slots = append(day.Slots, model.CalendarSlot{Time: slotTime, Variants: variants})
	}

	out := model.CalendarFeed{Month: month, Days: []model.CalendarDay{}}
	for _, day := range days {
		sort.Slice(day.Slots, func(i, j int) bool { return day.Slots[i].Time < day.Slots[j].Time })
		out.Days = append(out.Days, *day)
	}
	sort.Slice(out.Days, func(i, j int) bool { return out.Days[i].Date < out.Days[j].Date })
	return out, nil
}

// AssembleAdminMonth is the administrative variant: on top of the
// public assembly it fills in variant ids missing from a slot by
// reconstructing the expected bundle title and querying the backend
// directly.  Used for component linking before the public feed
// carries the identifiers.
func AssembleAdminMonth(ctx context.Context, src Source, collectionHandle, month, titleBase string) (model.CalendarFeed, error) {
	out, err := AssembleMonth(ctx, src, collectionHandle, month)
	if err != nil {
		return model.CalendarFeed{}, err
	}
	for di := range out.Days {
		day := &out.Days[di]
		for si := range day.Slots {
			slot := &day.Slots[si]
			if len(slot.Variants) > 0 {
				continue
			}
			title := model.BundleTitle(titleBase, day.Date, slot.Time)
			productID, err := src.FindProductByTitleAndTag(ctx, title, model.TagBundle)
			if err != nil {
				return model.CalendarFeed{}, err
			}
			if productID == "" {
				continue
			}
			variants, err := src.ListVariants(ctx, productID)
			if err != nil {
				return model.CalendarFeed{}, err
			}
			resolved := map[model.TicketType]string{}
			for _, v := range variants {
				if tt, ok := classifyVariant(v.Title); ok {
					resolved[tt] = v.ID
				}
			}
			if len(resolved) > 0 {
				slot.Variants = resolved
			}
		}
	}
	return out, nil
}
