// Package reconcile implements the slot-to-product reconciliation
// engine: it idempotently converges the backend catalog to the
// requested seat units, bundles, component links, inventory and
// prices for a set of (date, time) slots.  Re-running over the same
// input never duplicates products or variants and never drops
// existing relationships.
package reconcile

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/model"
	"github.com/ecomslots/slotsync/internal/repository"
)

// WarnNoPriceTier is attached to a slot for which the price table
// resolves to nothing.  The slot is skipped, the batch continues.
const WarnNoPriceTier = "Nessun listino prezzi per questo slot"

// previewCap bounds the preview list in the response.
const previewCap = 10

// Catalog is the slice of the commerce backend the engine consumes.
// *catalog.Client implements it; tests substitute a recording fake.
type Catalog interface {
	FindProductByTitleAndTag(ctx context.Context, title, tag string) (string, error)
	CreateProduct(ctx context.Context, in catalog.CreateProductInput) (string, error)
	ListVariants(ctx context.Context, productID string) ([]catalog.Variant, error)
	CreateVariants(ctx context.Context, productID string, inputs []catalog.VariantInput) ([]catalog.Variant, error)
	ActivateInventory(ctx context.Context, inventoryItemID, locationID string, quantity int) error
	SetInventoryAbsolute(ctx context.Context, inventoryItemID, locationID string, quantity int) error
	UpsertVariantComponent(ctx context.Context, parentVariantID, childVariantID string, quantity int) error
	SetVariantPrices(ctx context.Context, productID string, prices map[string]float64) error
	DefaultLocationID(ctx context.Context) (string, error)
	HolidayDates(ctx context.Context) (calendar.HolidaySet, error)
	AddProductsToCollection(ctx context.Context, collectionHandle string, productIDs []string) error
}

var _ Catalog = (*catalog.Client)(nil)

// RefIndex is the identity-index slice the engine consumes;
// *repository.SlotIndexRepo implements it.  A nil index disables
// persistence and every lookup goes through the title search.
type RefIndex interface {
	Get(ctx context.Context, key string) (*repository.Ref, error)
	Upsert(ctx context.Context, key, productID string) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

var _ RefIndex = (*repository.SlotIndexRepo)(nil)

// Batch holds the state of one reconciliation request.  A Batch is
// built per request and discarded with it: the title cache lives
// exactly as long as the batch, so nothing goes stale across
// requests.  Slots are processed strictly sequentially; find-or-create
// by title is not safe to race.
type Batch struct {
	cat        Catalog
	idx        RefIndex // nil when no index DB is configured
	collection string
	log        *logrus.Entry

	dryRun     bool
	locationID string

	titleCache map[string]string // product title -> backend id, this batch only

	summary    model.Summary
	preview    []model.PreviewEntry
	warnings   []string
	newBundles []string // bundle product ids created this run
}

// NewBatch builds a batch bound to a catalog, an optional identity
// index and the collection new bundles are attached to.
func NewBatch(cat Catalog, idx RefIndex, collection string, log *logrus.Entry) *Batch {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Batch{
		cat:        cat,
		idx:        idx,
		collection: collection,
		log:        log,
		titleCache: map[string]string{},
	}
}

// slotJob carries everything needed to reconcile one slot.
type slotJob struct {
	event          string
	titleBase      string
	slot           model.Slot
	capacity       int
	tier           *model.PriceTier
	mode           model.TicketMode
	tags           []string
	description    string
	templateSuffix string

	// presetVariants, set on the feed-import path, are bundle variant
	// ids already resolved upstream; when present for a ticket type
	// the bundle lookup for that variant is skipped.
	presetVariants map[model.TicketType]string
}

// lookupProduct resolves a product id through the per-batch cache,
// then the identity index, then a title search.  Returns "" when the
// product does not exist anywhere; fromIndex reports whether the id
// came out of the index and so may be stale.
func (b *Batch) lookupProduct(ctx context.Context, title, tag, idxKey string) (id string, fromIndex bool, err error) {
	if id, ok := b.titleCache[title]; ok {
		return id, false, nil
	}
	if b.idx != nil {
		ref, err := b.idx.Get(ctx, idxKey)
		if err == nil {
			b.titleCache[title] = ref.ProductID
			return ref.ProductID, true, nil
		}
		if err != repository.ErrRefNotFound {
			b.log.WithError(err).WithField("key", idxKey).Warn("slot index read failed, using title lookup")
		}
	}
	id, err = b.cat.FindProductByTitleAndTag(ctx, title, tag)
	if err != nil {
		return "", false, err
	}
	if id != "" {
		b.titleCache[title] = id
		b.rememberRef(ctx, idxKey, id)
	}
	return id, false, nil
}

// resolveProduct resolves a product and its live variants together.
// An index row pointing at a product deleted on the backend is stale:
// the row is dropped and resolution falls back to the title search,
// so a stale index entry never fails a batch.
func (b *Batch) resolveProduct(ctx context.Context, title, tag, idxKey string) (string, []catalog.Variant, error) {
	id, fromIndex, err := b.lookupProduct(ctx, title, tag, idxKey)
	if err != nil || id == "" {
		return id, nil, err
	}
	if isPreviewID(id) {
		return id, nil, nil
	}
	variants, err := b.cat.ListVariants(ctx, id)
	if err == nil {
		return id, variants, nil
	}
	if !fromIndex || !errors.Is(err, catalog.ErrNotFound) {
		return "", nil, err
	}

	b.log.WithFields(logrus.Fields{"key": idxKey, "product": id}).Warn("stale index row, falling back to title lookup")
	b.forgetRef(ctx, idxKey)
	delete(b.titleCache, title)

	id, err = b.cat.FindProductByTitleAndTag(ctx, title, tag)
	if err != nil {
		return "", nil, err
	}
	if id == "" {
		return "", nil, nil
	}
	b.titleCache[title] = id
	b.rememberRef(ctx, idxKey, id)
	variants, err = b.cat.ListVariants(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, variants, nil
}

// rememberRef writes an identity-index entry.  Index writes are
// best-effort and skipped entirely in dry-run mode.
func (b *Batch) rememberRef(ctx context.Context, key, productID string) {
	if b.idx == nil || b.dryRun || isPreviewID(productID) {
		return
	}
	if err := b.idx.Upsert(ctx, key, productID); err != nil {
		b.log.WithError(err).WithField("key", key).Warn("slot index write failed")
	}
}

// forgetRef drops an index entry known to be stale.  Dry-run batches
// leave the row in place; the next real run will clean it up.
func (b *Batch) forgetRef(ctx context.Context, key string) {
	if b.idx == nil || b.dryRun {
		return
	}
	if err := b.idx.Delete(ctx, key); err != nil {
		b.log.WithError(err).WithField("key", key).Warn("slot index delete failed")
	}
}

// Dry-run identities are synthesized deterministically from the title
// so the preview is stable; they must never reach a backend mutation.
func previewProductID(title string) string { return "preview:product:" + title }
func previewVariantID(title, name string) string {
	return "preview:variant:" + title + ":" + name
}

func isPreviewID(id string) bool {
	return len(id) >= 8 && id[:8] == "preview:"
}

func (b *Batch) warnf(entry model.PreviewEntry, msg string) {
	entry.Warning = msg
	b.addPreview(entry)
	b.warnings = append(b.warnings, entry.Date+" "+entry.Time+": "+msg)
}

func (b *Batch) addPreview(entry model.PreviewEntry) {
	if len(b.preview) < previewCap {
		b.preview = append(b.preview, entry)
	}
}

func (b *Batch) result() model.ApplyResult {
	warnings := b.warnings
	if warnings == nil {
		warnings = []string{}
	}
	preview := b.preview
	if preview == nil {
		preview = []model.PreviewEntry{}
	}
	return model.ApplyResult{
		OK:       true,
		DryRun:   b.dryRun,
		Summary:  b.summary,
		Preview:  preview,
		Warnings: warnings,
	}
}
