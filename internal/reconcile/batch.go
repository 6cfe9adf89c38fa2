package reconcile

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/model"
	"github.com/ecomslots/slotsync/internal/pricing"
)

// Run drives the manual-range batch: enumerate the slots of the date
// range and reconcile each one in calendar order.  A slot without a
// resolvable price tier is recorded as a warning and skipped; a
// backend error aborts the whole request with the failing slot in the
// error message.
func (b *Batch) Run(ctx context.Context, in model.ApplyInput) (model.ApplyResult, error) {
	b.dryRun = in.DryRun

	holidays, err := b.cat.HolidayDates(ctx)
	if err != nil {
		return model.ApplyResult{}, fmt.Errorf("load holiday dates: %w", err)
	}
	slots, err := calendar.EnumerateSlots(in.StartDate, in.EndDate, in.WeekdaySlots, in.WeekendSlots, in.FridayAsWeekend, holidays)
	if err != nil {
		return model.ApplyResult{}, err
	}
	if err := b.resolveLocation(ctx); err != nil {
		return model.ApplyResult{}, err
	}

	b.log.WithFields(logrus.Fields{
		"event": in.Event, "from": in.StartDate, "to": in.EndDate,
		"slots": len(slots), "dry_run": in.DryRun,
	}).Info("starting apply batch")

	for _, slot := range slots {
		tier := pricing.ResolveTier(slot.Date, slot.DayType, in.Prices, in.FridayAsWeekend, in.Exceptions)
		mode := pricing.DecideMode(tier)
		entry := model.PreviewEntry{Date: slot.Date, Time: slot.Time, DayType: slot.DayType, Mode: mode, Tier: tier}
		if mode == "" {
			b.warnf(entry, WarnNoPriceTier)
			continue
		}
		job := slotJob{
			event:          in.Event,
			titleBase:      in.TitleBase,
			slot:           slot,
			capacity:       in.Capacity,
			tier:           tier,
			mode:           mode,
			tags:           in.Tags,
			description:    in.Description,
			templateSuffix: in.TemplateSuffix,
		}
		if err := b.applySlot(ctx, job); err != nil {
			return model.ApplyResult{}, fmt.Errorf("slot %s %s: %w", slot.Date, slot.Time, err)
		}
		b.addPreview(entry)
	}

	b.attachCollection(ctx)
	return b.result(), nil
}

// RunImport drives the external-feed ingestion path over pre-built
// slots.  Mode is forced to the triple composition and per-slot
// failures are collected as warnings instead of aborting the batch.
func (b *Batch) RunImport(ctx context.Context, in model.ImportInput, slots []model.FeedSlot) (model.ApplyResult, error) {
	b.dryRun = in.DryRun

	holidays, err := b.cat.HolidayDates(ctx)
	if err != nil {
		return model.ApplyResult{}, fmt.Errorf("load holiday dates: %w", err)
	}
	if err := b.resolveLocation(ctx); err != nil {
		return model.ApplyResult{}, err
	}

	b.log.WithFields(logrus.Fields{
		"event": in.Event, "slots": len(slots), "dry_run": in.DryRun,
	}).Info("starting feed import batch")

	for _, fs := range slots {
		dayType := fs.DayType
		if dayType == "" {
			dayType = calendar.Classify(fs.Date, holidays)
		}
		slot := model.Slot{Date: fs.Date, Time: fs.Time, DayType: dayType}
		tier := pricing.ResolveTier(slot.Date, dayType, in.Prices, in.FridayAsWeekend, in.Exceptions)
		entry := model.PreviewEntry{Date: slot.Date, Time: slot.Time, DayType: dayType, Mode: model.ModeTriple, Tier: tier}
		if tier == nil {
			b.warnf(entry, WarnNoPriceTier)
			continue
		}
		job := slotJob{
			event:          in.Event,
			titleBase:      in.TitleBase,
			slot:           slot,
			capacity:       in.Capacity,
			tier:           tier,
			mode:           model.ModeTriple,
			tags:           in.Tags,
			description:    in.Description,
			templateSuffix: in.TemplateSuffix,
			presetVariants: fs.Variants,
		}
		if err := b.applySlot(ctx, job); err != nil {
			// Best-effort continuation: the summary reflects the slots
			// that succeeded, the warning carries the original message.
			b.log.WithError(err).WithFields(logrus.Fields{"date": slot.Date, "time": slot.Time}).Error("slot failed")
			b.warnf(entry, err.Error())
			continue
		}
		b.addPreview(entry)
	}

	b.attachCollection(ctx)
	return b.result(), nil
}

// applySlot reconciles one slot end to end: seat unit, inventory,
// bundle, component links, prices.
func (b *Batch) applySlot(ctx context.Context, job slotJob) error {
	seat, err := b.ensureSeatUnit(ctx, job)
	if err != nil {
		return err
	}
	if err := b.ensureInventory(ctx, seat, job.capacity); err != nil {
		return err
	}
	bundle, err := b.ensureBundle(ctx, job)
	if err != nil {
		return err
	}
	if bundle.CreatedProduct && !isPreviewID(bundle.ProductID) {
		b.newBundles = append(b.newBundles, bundle.ProductID)
	}
	if err := b.linkAndPrice(ctx, job, bundle, seat); err != nil {
		return err
	}
	b.log.WithFields(logrus.Fields{
		"date": job.slot.Date, "time": job.slot.Time, "mode": job.mode,
		"seat_created": seat.CreatedProduct, "bundle_created": bundle.CreatedProduct,
	}).Debug("slot reconciled")
	return nil
}

// resolveLocation fixes the stock location once per batch.
func (b *Batch) resolveLocation(ctx context.Context) error {
	loc, err := b.cat.DefaultLocationID(ctx)
	if err != nil {
		return fmt.Errorf("resolve stock location: %w", err)
	}
	b.locationID = loc
	return nil
}

// attachCollection adds the bundles created this run to the
// configured collection.  Best-effort: a failure becomes a warning.
func (b *Batch) attachCollection(ctx context.Context) {
	if b.dryRun || b.collection == "" || len(b.newBundles) == 0 {
		return
	}
	if err := b.cat.AddProductsToCollection(ctx, b.collection, b.newBundles); err != nil {
		b.log.WithError(err).WithField("collection", b.collection).Warn("collection attach failed")
		b.warnings = append(b.warnings, "collection attach failed: "+err.Error())
	}
}
