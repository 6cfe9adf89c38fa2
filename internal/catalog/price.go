package catalog

import (
	"context"
	"sort"
	"strconv"
)

// FormatPrice converts a euro amount to the backend's decimal string
// representation.  All monetary values cross this boundary as decimal
// euros; this is the single conversion point.
func FormatPrice(euro float64) string {
	return strconv.FormatFloat(euro, 'f', 2, 64)
}

// SetVariantPrices updates the prices of several variants of one
// product in a single bulk call.  Prices are euro amounts keyed by
// variant id.  A field error reported by the backend carries the
// offending variant context in its message.
func (c *Client) SetVariantPrices(ctx context.Context, productID string, prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}
	const q = `mutation($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
	  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
	    productVariants { id }
	    userErrors { field message }
	  }
	}`
	// Stable order keeps the call deterministic for tests and logs.
	ids := make([]string, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	vars := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		vars = append(vars, map[string]any{"id": id, "price": FormatPrice(prices[id])})
	}
	var out struct {
		ProductVariantsBulkUpdate struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"productVariantsBulkUpdate"`
	}
	if err := c.do(ctx, "setVariantPrices", q, map[string]any{"productId": productID, "variants": vars}, &out); err != nil {
		return err
	}
	return userErrorsToErr("setVariantPrices", out.ProductVariantsBulkUpdate.UserErrors)
}
