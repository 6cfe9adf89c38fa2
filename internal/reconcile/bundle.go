package reconcile

import (
	"context"
	"fmt"

	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/model"
	"github.com/ecomslots/slotsync/internal/repository"
)

// bundleRef is the resolved identity of a bundle product and the
// variants of its ticket composition.
type bundleRef struct {
	ProductID      string
	Variants       map[model.TicketType]catalog.Variant
	CreatedProduct bool
}

// ensureBundle makes sure the per-slot bundle product exists with the
// variant set its mode requires: one "Biglietto unico" variant or the
// three typed variants.  Existing variants are reused untouched; only
// the missing ones are created.  The variant set of an already-created
// bundle is never shrunk here, so switching a slot's mode leaves the
// old variants in place (the mixed state is surfaced by the feed, not
// silently resolved).
func (b *Batch) ensureBundle(ctx context.Context, job slotJob) (bundleRef, error) {
	title := model.BundleTitle(job.titleBase, job.slot.Date, job.slot.Time)
	productKey := repository.BundleProductKey(job.event, job.slot.Date, job.slot.Time)

	productID, existing, err := b.resolveProduct(ctx, title, model.TagBundle, productKey)
	if err != nil {
		return bundleRef{}, fmt.Errorf("find bundle: %w", err)
	}

	ref := bundleRef{Variants: map[model.TicketType]catalog.Variant{}}
	if productID == "" {
		ref.CreatedProduct = true
		if b.dryRun {
			productID = previewProductID(title)
		} else {
			productID, err = b.cat.CreateProduct(ctx, catalog.CreateProductInput{
				Title:          title,
				Tags:           append([]string{model.TagBundle}, job.tags...),
				Status:         "ACTIVE",
				Description:    job.description,
				TemplateSuffix: job.templateSuffix,
			})
			if err != nil {
				return bundleRef{}, fmt.Errorf("create bundle: %w", err)
			}
			b.rememberRef(ctx, productKey, productID)
		}
		b.titleCache[title] = productID
		b.summary.BundlesCreated++
	}
	ref.ProductID = productID

	required := job.mode.TicketTypes()

	// Preset variant ids from the external feed short-circuit the
	// variant reconciliation for the types they cover.
	missing := make([]model.TicketType, 0, len(required))
	for _, tt := range required {
		if id, ok := job.presetVariants[tt]; ok && id != "" {
			ref.Variants[tt] = catalog.Variant{ID: id, Title: tt.VariantName()}
			continue
		}
		missing = append(missing, tt)
	}
	if len(missing) == 0 {
		return ref, nil
	}

	if isPreviewID(productID) {
		for _, tt := range missing {
			ref.Variants[tt] = catalog.Variant{ID: previewVariantID(title, string(tt)), Title: tt.VariantName()}
			b.summary.VariantsCreated++
		}
		return ref, nil
	}

	var toCreate []model.TicketType
	for _, tt := range missing {
		found := false
		for _, v := range existing {
			if v.Title == tt.VariantName() {
				ref.Variants[tt] = v
				found = true
				break
			}
		}
		if !found {
			toCreate = append(toCreate, tt)
		}
	}
	if len(toCreate) == 0 {
		return ref, nil
	}

	if b.dryRun {
		for _, tt := range toCreate {
			ref.Variants[tt] = catalog.Variant{ID: previewVariantID(title, string(tt)), Title: tt.VariantName()}
		}
		b.summary.VariantsCreated += len(toCreate)
		return ref, nil
	}

	inputs := make([]catalog.VariantInput, 0, len(toCreate))
	for _, tt := range toCreate {
		price, _ := job.tier.Price(tt)
		inputs = append(inputs, catalog.VariantInput{OptionValue: tt.VariantName(), Price: price})
	}
	created, err := b.cat.CreateVariants(ctx, productID, inputs)
	if err != nil {
		return bundleRef{}, fmt.Errorf("create bundle variants: %w", err)
	}
	for i, tt := range toCreate {
		ref.Variants[tt] = created[i]
	}
	b.summary.VariantsCreated += len(toCreate)
	return ref, nil
}

// linkAndPrice upserts the bundle->seat component links with their
// seat weights and converges the bundle variant prices to the
// resolved tier.  Both operations run on every apply so drifted
// quantities and prices are corrected in place.
func (b *Batch) linkAndPrice(ctx context.Context, job slotJob, bundle bundleRef, seat seatRef) error {
	prices := map[string]float64{}
	for _, tt := range job.mode.TicketTypes() {
		v, ok := bundle.Variants[tt]
		if !ok {
			continue
		}
		b.summary.RelationshipsUpserted++
		if !b.dryRun {
			if err := b.cat.UpsertVariantComponent(ctx, v.ID, seat.VariantID, tt.SeatWeight()); err != nil {
				return fmt.Errorf("link %s to seat unit: %w", tt, err)
			}
		}
		if price, ok := job.tier.Price(tt); ok {
			prices[v.ID] = price
		}
	}
	if len(prices) == 0 {
		return nil
	}
	b.summary.PricesUpdated += len(prices)
	if b.dryRun {
		return nil
	}
	if err := b.cat.SetVariantPrices(ctx, bundle.ProductID, prices); err != nil {
		return fmt.Errorf("set bundle prices: %w", err)
	}
	return nil
}
