package repository // repository persists the slot identity index

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"fmt"
)

// Ref is one identity-index entry: the backend product id resolved
// for a reconciled object.  The index is product-level; variants are
// always re-resolved from the product's live variant list.
type Ref struct {
	Key       string // e.g. "seat:visita:2025-12-06"
	ProductID string // backend product gid
}

// ErrRefNotFound is returned when no index entry exists for a key.
// Callers fall back to a title lookup against the backend; a missing
// or stale entry never fails a batch.
var ErrRefNotFound = errors.New("catalog ref not found")

// SlotIndexRepo stores the (event, date, time) -> backend-id mapping
// that makes re-runs robust against title-format drift.  The title
// reconstruction lookup remains the fallback source of truth.
type SlotIndexRepo struct {
	db *sql.DB
}

// NewSlotIndexRepo constructs a SlotIndexRepo with the given DB handle.
func NewSlotIndexRepo(db *sql.DB) *SlotIndexRepo {
	return &SlotIndexRepo{db: db}
}

// SeatProductKey identifies the per-date seat unit product.
func SeatProductKey(event, date string) string {
	return fmt.Sprintf("seat:%s:%s", event, date)
}

// BundleProductKey identifies the per-slot bundle product.
func BundleProductKey(event, date, slotTime string) string {
	return fmt.Sprintf("bundle:%s:%s:%s", event, date, slotTime)
}

// SeatKeyPrefix covers every seat unit entry of one event.
func SeatKeyPrefix(event string) string {
	return "seat:" + event + ":"
}

// BundleKeyPrefix covers every bundle entry of one event.
func BundleKeyPrefix(event string) string {
	return "bundle:" + event + ":"
}

// Get retrieves an index entry by key.
func (r *SlotIndexRepo) Get(ctx context.Context, key string) (*Ref, error) {
	const q = `SELECT ref_key, product_id FROM slot_index WHERE ref_key = ?`
	var ref Ref
	err := r.db.QueryRowContext(ctx, q, key).Scan(&ref.Key, &ref.ProductID)
	if err == sql.ErrNoRows {
		return nil, ErrRefNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Upsert inserts or replaces an index entry.
func (r *SlotIndexRepo) Upsert(ctx context.Context, key, productID string) error {
	const q = `INSERT INTO slot_index (ref_key, product_id)
	           VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE product_id = VALUES(product_id)`
	_, err := r.db.ExecContext(ctx, q, key, productID)
	return err
}

// Delete removes one index entry.  Used when a row turns out to point
// at a product that no longer exists on the backend.
func (r *SlotIndexRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM slot_index WHERE ref_key = ?`
	_, err := r.db.ExecContext(ctx, q, key)
	return err
}

// DeleteByPrefix removes all entries whose key starts with the given
// prefix.  Used by operators after products are deleted on the backend.
func (r *SlotIndexRepo) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	const q = `DELETE FROM slot_index WHERE ref_key LIKE CONCAT(?, '%')`
	res, err := r.db.ExecContext(ctx, q, prefix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
