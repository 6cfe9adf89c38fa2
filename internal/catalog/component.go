package catalog

import (
	"context"
	"fmt"
)

// componentOf reads the existing child components of a parent variant.
func (c *Client) componentsOf(ctx context.Context, parentVariantID string) (map[string]int, error) {
	const q = `query($id: ID!) {
	  productVariant(id: $id) {
	    productVariantComponents(first: 20) {
	      nodes { quantity productVariant { id } }
	    }
	  }
	}`
	var out struct {
		ProductVariant *struct {
			ProductVariantComponents struct {
				Nodes []struct {
					Quantity       int `json:"quantity"`
					ProductVariant struct {
						ID string `json:"id"`
					} `json:"productVariant"`
				} `json:"nodes"`
			} `json:"productVariantComponents"`
		} `json:"productVariant"`
	}
	if err := c.do(ctx, "listVariantComponents", q, map[string]any{"id": parentVariantID}, &out); err != nil {
		return nil, err
	}
	if out.ProductVariant == nil {
		return nil, fmt.Errorf("listVariantComponents: %w: variant %s not found", ErrUpstreamShape, parentVariantID)
	}
	comps := make(map[string]int)
	for _, n := range out.ProductVariant.ProductVariantComponents.Nodes {
		comps[n.ProductVariant.ID] = n.Quantity
	}
	return comps, nil
}

// UpsertVariantComponent links a bundle variant to the seat unit
// variant it consumes, with an explicit quantity (seats per ticket).
// Re-running with the same quantity is a no-op; a changed quantity is
// updated in place, never duplicated.
func (c *Client) UpsertVariantComponent(ctx context.Context, parentVariantID, childVariantID string, quantity int) error {
	existing, err := c.componentsOf(ctx, parentVariantID)
	if err != nil {
		return err
	}
	if qty, ok := existing[childVariantID]; ok && qty == quantity {
		return nil
	}

	const q = `mutation($input: [ProductVariantRelationshipUpdateInput!]!) {
	  productVariantRelationshipBulkUpdate(input: $input) {
	    parentProductVariants { id }
	    userErrors { field message }
	  }
	}`
	rel := map[string]any{"id": childVariantID, "quantity": quantity}
	entry := map[string]any{"parentProductVariantId": parentVariantID}
	if _, ok := existing[childVariantID]; ok {
		entry["productVariantRelationshipsToUpdate"] = []map[string]any{rel}
	} else {
		entry["productVariantRelationshipsToCreate"] = []map[string]any{rel}
	}
	var out struct {
		ProductVariantRelationshipBulkUpdate struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"productVariantRelationshipBulkUpdate"`
	}
	if err := c.do(ctx, "upsertVariantComponent", q, map[string]any{"input": []map[string]any{entry}}, &out); err != nil {
		return err
	}
	return userErrorsToErr("upsertVariantComponent", out.ProductVariantRelationshipBulkUpdate.UserErrors)
}
