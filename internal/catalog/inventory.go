package catalog

import "context"

// ActivateInventory starts tracking an inventory item at a location
// with an initial available quantity.  Used right after variant
// creation, when no inventory level exists yet.
func (c *Client) ActivateInventory(ctx context.Context, inventoryItemID, locationID string, quantity int) error {
	const q = `mutation($itemId: ID!, $locationId: ID!, $available: Int) {
	  inventoryActivate(inventoryItemId: $itemId, locationId: $locationId, available: $available) {
	    inventoryLevel { id }
	    userErrors { field message }
	  }
	}`
	var out struct {
		InventoryActivate struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"inventoryActivate"`
	}
	vars := map[string]any{"itemId": inventoryItemID, "locationId": locationID, "available": quantity}
	if err := c.do(ctx, "activateInventory", q, vars, &out); err != nil {
		return err
	}
	return userErrorsToErr("activateInventory", out.InventoryActivate.UserErrors)
}

// SetInventoryAbsolute sets the available quantity of an inventory
// item at a location to an absolute value.  This is how re-runs
// converge drifted inventory back to the requested capacity: the
// quantity is set, never incremented.
func (c *Client) SetInventoryAbsolute(ctx context.Context, inventoryItemID, locationID string, quantity int) error {
	const q = `mutation($input: InventorySetQuantitiesInput!) {
	  inventorySetQuantities(input: $input) {
	    inventoryAdjustmentGroup { reason }
	    userErrors { field message }
	  }
	}`
	input := map[string]any{
		"name":                  "available",
		"reason":                "correction",
		"ignoreCompareQuantity": true,
		"quantities": []map[string]any{{
			"inventoryItemId": inventoryItemID,
			"locationId":      locationID,
			"quantity":        quantity,
		}},
	}
	var out struct {
		InventorySetQuantities struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"inventorySetQuantities"`
	}
	if err := c.do(ctx, "setInventoryAbsolute", q, map[string]any{"input": input}, &out); err != nil {
		return err
	}
	return userErrorsToErr("setInventoryAbsolute", out.InventorySetQuantities.UserErrors)
}
