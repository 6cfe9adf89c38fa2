package reconcile

import (
	"context"
	"fmt"

	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/model"
	"github.com/ecomslots/slotsync/internal/repository"
)

// seatRef is the resolved identity of a seat unit slot variant.
type seatRef struct {
	ProductID       string
	VariantID       string
	InventoryItemID string
	CreatedProduct  bool // this call created the product
	CreatedVariant  bool // this call created the time variant
}

// ensureSeatUnit makes sure the per-date seat unit product and its
// time-keyed variant exist, creating whatever is missing.  Existing
// products and variants are reused, never duplicated.  In dry-run
// mode lookups still run but absent objects get deterministic preview
// identities instead of backend writes.
func (b *Batch) ensureSeatUnit(ctx context.Context, job slotJob) (seatRef, error) {
	title := model.SeatUnitTitle(job.titleBase, job.slot.Date)
	productKey := repository.SeatProductKey(job.event, job.slot.Date)

	productID, variants, err := b.resolveProduct(ctx, title, model.TagSeatUnit, productKey)
	if err != nil {
		return seatRef{}, fmt.Errorf("find seat unit: %w", err)
	}

	var ref seatRef
	if productID == "" {
		ref.CreatedProduct = true
		if b.dryRun {
			productID = previewProductID(title)
		} else {
			productID, err = b.cat.CreateProduct(ctx, catalog.CreateProductInput{
				Title:          title,
				Tags:           append([]string{model.TagSeatUnit}, job.tags...),
				Status:         "ACTIVE",
				Description:    job.description,
				TemplateSuffix: job.templateSuffix,
			})
			if err != nil {
				return seatRef{}, fmt.Errorf("create seat unit: %w", err)
			}
			b.rememberRef(ctx, productKey, productID)
		}
		b.titleCache[title] = productID
		b.summary.SeatsCreated++
	}
	ref.ProductID = productID

	if isPreviewID(productID) {
		ref.VariantID = previewVariantID(title, job.slot.Time)
		ref.InventoryItemID = "preview:inventory:" + title + ":" + job.slot.Time
		ref.CreatedVariant = true
		b.summary.VariantsCreated++
		return ref, nil
	}

	for _, v := range variants {
		if v.Title == job.slot.Time {
			ref.VariantID = v.ID
			ref.InventoryItemID = v.InventoryItemID
			return ref, nil
		}
	}

	ref.CreatedVariant = true
	if b.dryRun {
		ref.VariantID = previewVariantID(title, job.slot.Time)
		ref.InventoryItemID = "preview:inventory:" + title + ":" + job.slot.Time
		b.summary.VariantsCreated++
		return ref, nil
	}
	created, err := b.cat.CreateVariants(ctx, productID, []catalog.VariantInput{{
		OptionValue:      job.slot.Time,
		InventoryTracked: true,
	}})
	if err != nil {
		return seatRef{}, fmt.Errorf("create seat unit variant: %w", err)
	}
	ref.VariantID = created[0].ID
	ref.InventoryItemID = created[0].InventoryItemID
	b.summary.VariantsCreated++
	return ref, nil
}

// ensureInventory converges the seat variant's inventory at the batch
// location to the requested capacity.  The quantity is an absolute
// set: a freshly created variant gets its inventory activated with
// the capacity, an existing one has its level corrected in place.
func (b *Batch) ensureInventory(ctx context.Context, ref seatRef, capacity int) error {
	b.summary.InventoryAdjusted++
	if b.dryRun {
		return nil
	}
	if ref.CreatedVariant {
		if err := b.cat.ActivateInventory(ctx, ref.InventoryItemID, b.locationID, capacity); err != nil {
			return fmt.Errorf("activate inventory: %w", err)
		}
		return nil
	}
	if err := b.cat.SetInventoryAbsolute(ctx, ref.InventoryItemID, b.locationID, capacity); err != nil {
		return fmt.Errorf("set inventory: %w", err)
	}
	return nil
}
