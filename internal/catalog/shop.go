package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecomslots/slotsync/internal/calendar"
)

// DefaultLocationID returns the stock location inventory is managed
// at: the configured location when set, otherwise the first location
// registered on the backend.
func (c *Client) DefaultLocationID(ctx context.Context) (string, error) {
	if c.DefaultLocation != "" {
		return c.DefaultLocation, nil
	}
	const q = `query {
	  locations(first: 1) {
	    edges { node { id } }
	  }
	}`
	var out struct {
		Locations struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"locations"`
	}
	if err := c.do(ctx, "defaultLocation", q, nil, &out); err != nil {
		return "", err
	}
	if len(out.Locations.Edges) == 0 {
		return "", fmt.Errorf("defaultLocation: %w: no locations registered", ErrUpstreamShape)
	}
	return out.Locations.Edges[0].Node.ID, nil
}

// HolidayDates reads the holiday calendar from the shop metafield
// (custom.giorni_festivi, a JSON array of ISO dates).  A missing
// metafield yields an empty set, not an error.
func (c *Client) HolidayDates(ctx context.Context) (calendar.HolidaySet, error) {
	const q = `query {
	  shop {
	    metafield(namespace: "custom", key: "giorni_festivi") { value }
	  }
	}`
	var out struct {
		Shop struct {
			Metafield *struct {
				Value string `json:"value"`
			} `json:"metafield"`
		} `json:"shop"`
	}
	if err := c.do(ctx, "holidayDates", q, nil, &out); err != nil {
		return nil, err
	}
	set := calendar.HolidaySet{}
	if out.Shop.Metafield == nil || out.Shop.Metafield.Value == "" {
		return set, nil
	}
	var dates []string
	if err := json.Unmarshal([]byte(out.Shop.Metafield.Value), &dates); err != nil {
		return nil, fmt.Errorf("holidayDates: %w: %v", ErrUpstreamShape, err)
	}
	for _, d := range dates {
		set[d] = true
	}
	return set, nil
}

// AddProductsToCollection appends products to the collection resolved
// by handle.  Callers treat failures as best-effort: the error is
// reported, never fatal to a batch.
func (c *Client) AddProductsToCollection(ctx context.Context, collectionHandle string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	const qFind = `query($handle: String!) {
	  collectionByHandle(handle: $handle) { id }
	}`
	var found struct {
		CollectionByHandle *struct {
			ID string `json:"id"`
		} `json:"collectionByHandle"`
	}
	if err := c.do(ctx, "findCollection", qFind, map[string]any{"handle": collectionHandle}, &found); err != nil {
		return err
	}
	if found.CollectionByHandle == nil {
		return fmt.Errorf("findCollection: collection %q not found", collectionHandle)
	}

	const qAdd = `mutation($id: ID!, $productIds: [ID!]!) {
	  collectionAddProductsV2(id: $id, productIds: $productIds) {
	    userErrors { field message }
	  }
	}`
	var out struct {
		CollectionAddProductsV2 struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"collectionAddProductsV2"`
	}
	vars := map[string]any{"id": found.CollectionByHandle.ID, "productIds": productIDs}
	if err := c.do(ctx, "addToCollection", qAdd, vars, &out); err != nil {
		return err
	}
	return userErrorsToErr("addToCollection", out.CollectionAddProductsV2.UserErrors)
}

// ListCollectionProducts returns the products of a collection filtered
// by tag, each with its variants.  Used by the feed assembler.
func (c *Client) ListCollectionProducts(ctx context.Context, collectionHandle, tag string) ([]Product, error) {
	const q = `query($handle: String!, $after: String) {
	  collectionByHandle(handle: $handle) {
	    products(first: 100, after: $after) {
	      pageInfo { hasNextPage endCursor }
	      edges {
	        node {
	          id title tags
	          variants(first: 20) {
	            edges { node { id title inventoryItem { id } } }
	          }
	        }
	      }
	    }
	  }
	}`
	type page struct {
		CollectionByHandle *struct {
			Products struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Node struct {
						ID       string   `json:"id"`
						Title    string   `json:"title"`
						Tags     []string `json:"tags"`
						Variants struct {
							Edges []struct {
								Node struct {
									ID            string `json:"id"`
									Title         string `json:"title"`
									InventoryItem struct {
										ID string `json:"id"`
									} `json:"inventoryItem"`
								} `json:"node"`
							} `json:"edges"`
						} `json:"variants"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		} `json:"collectionByHandle"`
	}

	var products []Product
	var after any
	for {
		var out page
		vars := map[string]any{"handle": collectionHandle}
		if after != nil {
			vars["after"] = after
		}
		if err := c.do(ctx, "listCollectionProducts", q, vars, &out); err != nil {
			return nil, err
		}
		if out.CollectionByHandle == nil {
			return nil, fmt.Errorf("listCollectionProducts: collection %q not found", collectionHandle)
		}
		for _, e := range out.CollectionByHandle.Products.Edges {
			if tag != "" && !hasTag(e.Node.Tags, tag) {
				continue
			}
			p := Product{ID: e.Node.ID, Title: e.Node.Title}
			for _, ve := range e.Node.Variants.Edges {
				p.Variants = append(p.Variants, Variant{
					ID:              ve.Node.ID,
					Title:           ve.Node.Title,
					InventoryItemID: ve.Node.InventoryItem.ID,
				})
			}
			products = append(products, p)
		}
		if !out.CollectionByHandle.Products.PageInfo.HasNextPage {
			break
		}
		after = out.CollectionByHandle.Products.PageInfo.EndCursor
	}
	return products, nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
