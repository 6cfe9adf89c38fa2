package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Variant is the slice of a product variant the engine works with.
type Variant struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	InventoryItemID string `json:"inventoryItemId"`
}

// Product is a product with its variants, as returned by collection
// listings for the feed assembler.
type Product struct {
	ID       string
	Title    string
	Variants []Variant
}

// CreateProductInput carries everything productCreate needs.  Tags
// must already include the reserved marker tag (seat unit or bundle).
type CreateProductInput struct {
	Title          string
	Tags           []string
	Status         string // ACTIVE or DRAFT
	Handle         string
	Description    string
	TemplateSuffix string
}

// FindProductByTitleAndTag looks up a single product by exact title,
// optionally narrowed by a tag.  Returns "" when nothing matches; a
// miss is not an error.
func (c *Client) FindProductByTitleAndTag(ctx context.Context, title, tag string) (string, error) {
	search := fmt.Sprintf("title:%q", title)
	if tag != "" {
		search += fmt.Sprintf(" AND tag:%q", tag)
	}
	const q = `query($q: String!) {
	  products(first: 1, query: $q) {
	    edges { node { id title } }
	  }
	}`
	var out struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.do(ctx, "findProduct", q, map[string]any{"q": search}, &out); err != nil {
		return "", err
	}
	for _, e := range out.Products.Edges {
		// The backend search is not an exact-phrase match, so a prefix
		// title could come back; accept only the exact title.
		if strings.EqualFold(e.Node.Title, title) {
			return e.Node.ID, nil
		}
	}
	return "", nil
}

// CreateProduct creates a product and returns its id.  Backend
// userErrors surface as ErrValidation.
func (c *Client) CreateProduct(ctx context.Context, in CreateProductInput) (string, error) {
	const q = `mutation($input: ProductInput!) {
	  productCreate(input: $input) {
	    product { id }
	    userErrors { field message }
	  }
	}`
	input := map[string]any{
		"title":  in.Title,
		"tags":   in.Tags,
		"status": in.Status,
	}
	if in.Handle != "" {
		input["handle"] = in.Handle
	}
	if in.Description != "" {
		input["descriptionHtml"] = in.Description
	}
	if in.TemplateSuffix != "" {
		input["templateSuffix"] = in.TemplateSuffix
	}
	var out struct {
		ProductCreate struct {
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
			UserErrors []userError `json:"userErrors"`
		} `json:"productCreate"`
	}
	if err := c.do(ctx, "createProduct", q, map[string]any{"input": input}, &out); err != nil {
		return "", err
	}
	if err := userErrorsToErr("createProduct", out.ProductCreate.UserErrors); err != nil {
		return "", err
	}
	if out.ProductCreate.Product.ID == "" {
		return "", fmt.Errorf("createProduct: %w: empty product id", ErrUpstreamShape)
	}
	return out.ProductCreate.Product.ID, nil
}

// ListVariants returns all variants of a product with their inventory
// item ids.
func (c *Client) ListVariants(ctx context.Context, productID string) ([]Variant, error) {
	const q = `query($id: ID!) {
	  product(id: $id) {
	    variants(first: 100) {
	      edges { node { id title inventoryItem { id } } }
	    }
	  }
	}`
	var out struct {
		Product *struct {
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
		} `json:"product"`
	}
	if err := c.do(ctx, "listVariants", q, map[string]any{"id": productID}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("listVariants: %w: product %s", ErrNotFound, productID)
	}
	var vs []Variant
	for _, e := range out.Product.Variants.Edges {
		vs = append(vs, Variant{
			ID:              e.Node.ID,
			Title:           e.Node.Title,
			InventoryItemID: e.Node.InventoryItem.ID,
		})
	}
	return vs, nil
}

// VariantInput describes one variant to create on an existing product.
type VariantInput struct {
	OptionValue      string
	SKU              string
	Price            float64
	InventoryTracked bool
}

// CreateVariants adds variants to a product in one bulk call and
// returns them in input order.
func (c *Client) CreateVariants(ctx context.Context, productID string, inputs []VariantInput) ([]Variant, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	const q = `mutation($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
	  productVariantsBulkCreate(productId: $productId, variants: $variants) {
	    productVariants { id title inventoryItem { id } }
	    userErrors { field message }
	  }
	}`
	vars := make([]map[string]any, 0, len(inputs))
	for _, in := range inputs {
		v := map[string]any{
			"optionValues": []map[string]any{{"name": in.OptionValue, "optionName": "Title"}},
			"price":        FormatPrice(in.Price),
			"inventoryItem": map[string]any{
				"tracked": in.InventoryTracked,
			},
		}
		if in.SKU != "" {
			v["inventoryItem"].(map[string]any)["sku"] = in.SKU
		}
		vars = append(vars, v)
	}
	var out struct {
		ProductVariantsBulkCreate struct {
			ProductVariants []struct {
				ID            string `json:"id"`
				Title         string `json:"title"`
				InventoryItem struct {
					ID string `json:"id"`
				} `json:"inventoryItem"`
			} `json:"productVariants"`
			UserErrors []userError `json:"userErrors"`
		} `json:"productVariantsBulkCreate"`
	}
	if err := c.do(ctx, "createVariants", q, map[string]any{"productId": productID, "variants": vars}, &out); err != nil {
		return nil, err
	}
	if err := userErrorsToErr("createVariants", out.ProductVariantsBulkCreate.UserErrors); err != nil {
		return nil, err
	}
	if len(out.ProductVariantsBulkCreate.ProductVariants) != len(inputs) {
		return nil, fmt.Errorf("createVariants: %w: asked %d variants, got %d",
			ErrUpstreamShape, len(inputs), len(out.ProductVariantsBulkCreate.ProductVariants))
	}
	var vs []Variant
	for _, v := range out.ProductVariantsBulkCreate.ProductVariants {
		vs = append(vs, Variant{ID: v.ID, Title: v.Title, InventoryItemID: v.InventoryItem.ID})
	}
	return vs, nil
}
