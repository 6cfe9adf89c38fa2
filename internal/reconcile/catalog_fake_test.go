package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/repository"
)

// fakeCatalog is an in-memory recording double of the commerce
// backend.  Every call is recorded by operation name so tests can
// assert which reads and writes happened.
type fakeCatalog struct {
	nextID int

	products  map[string]*fakeProduct // by product id
	byTitle   map[string]string       // title -> product id
	inventory map[string]int          // inventoryItemID "@" locationID -> quantity
	component map[string]map[string]int
	prices    map[string]float64
	holidays  calendar.HolidaySet
	added     map[string][]string // collection -> product ids

	reads     []string
	mutations []string

	failCreateTitle string // CreateProduct with this title fails
}

type fakeProduct struct {
	id       string
	title    string
	tags     []string
	variants []catalog.Variant
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:  map[string]*fakeProduct{},
		byTitle:   map[string]string{},
		inventory: map[string]int{},
		component: map[string]map[string]int{},
		prices:    map[string]float64{},
		holidays:  calendar.HolidaySet{},
		added:     map[string][]string{},
	}
}

func (f *fakeCatalog) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeCatalog) FindProductByTitleAndTag(ctx context.Context, title, tag string) (string, error) {
	f.reads = append(f.reads, "findProduct")
	return f.byTitle[title], nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, in catalog.CreateProductInput) (string, error) {
	f.mutations = append(f.mutations, "createProduct")
	if in.Title == f.failCreateTitle {
		return "", fmt.Errorf("createProduct: %w: title is invalid", catalog.ErrValidation)
	}
	p := &fakeProduct{id: f.id("prod"), title: in.Title, tags: in.Tags}
	f.products[p.id] = p
	f.byTitle[p.title] = p.id
	return p.id, nil
}

func (f *fakeCatalog) ListVariants(ctx context.Context, productID string) ([]catalog.Variant, error) {
	f.reads = append(f.reads, "listVariants")
	p, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("listVariants: %w: product %s", catalog.ErrNotFound, productID)
	}
	return append([]catalog.Variant(nil), p.variants...), nil
}

func (f *fakeCatalog) CreateVariants(ctx context.Context, productID string, inputs []catalog.VariantInput) ([]catalog.Variant, error) {
	f.mutations = append(f.mutations, "createVariants")
	p, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("createVariants: %w: no product %s", catalog.ErrUpstreamShape, productID)
	}
	var out []catalog.Variant
	for _, in := range inputs {
		v := catalog.Variant{ID: f.id("var"), Title: in.OptionValue, InventoryItemID: f.id("item")}
		p.variants = append(p.variants, v)
		f.prices[v.ID] = in.Price
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeCatalog) ActivateInventory(ctx context.Context, itemID, locationID string, qty int) error {
	f.mutations = append(f.mutations, "activateInventory")
	f.inventory[itemID+"@"+locationID] = qty
	return nil
}

func (f *fakeCatalog) SetInventoryAbsolute(ctx context.Context, itemID, locationID string, qty int) error {
	f.mutations = append(f.mutations, "setInventory")
	f.inventory[itemID+"@"+locationID] = qty
	return nil
}

func (f *fakeCatalog) UpsertVariantComponent(ctx context.Context, parentVariantID, childVariantID string, qty int) error {
	f.mutations = append(f.mutations, "upsertComponent")
	m, ok := f.component[parentVariantID]
	if !ok {
		m = map[string]int{}
		f.component[parentVariantID] = m
	}
	m[childVariantID] = qty
	return nil
}

func (f *fakeCatalog) SetVariantPrices(ctx context.Context, productID string, prices map[string]float64) error {
	f.mutations = append(f.mutations, "setPrices")
	for id, p := range prices {
		f.prices[id] = p
	}
	return nil
}

func (f *fakeCatalog) DefaultLocationID(ctx context.Context) (string, error) {
	f.reads = append(f.reads, "defaultLocation")
	return "loc-1", nil
}

func (f *fakeCatalog) HolidayDates(ctx context.Context) (calendar.HolidaySet, error) {
	f.reads = append(f.reads, "holidayDates")
	return f.holidays, nil
}

func (f *fakeCatalog) AddProductsToCollection(ctx context.Context, handle string, productIDs []string) error {
	f.mutations = append(f.mutations, "addToCollection")
	f.added[handle] = append(f.added[handle], productIDs...)
	return nil
}

// fakeIndex is an in-memory identity-index double.
type fakeIndex struct {
	rows    map[string]string // key -> product id
	deleted []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{rows: map[string]string{}}
}

func (f *fakeIndex) Get(ctx context.Context, key string) (*repository.Ref, error) {
	id, ok := f.rows[key]
	if !ok {
		return nil, repository.ErrRefNotFound
	}
	return &repository.Ref{Key: key, ProductID: id}, nil
}

func (f *fakeIndex) Upsert(ctx context.Context, key, productID string) error {
	f.rows[key] = productID
	return nil
}

func (f *fakeIndex) Delete(ctx context.Context, key string) error {
	delete(f.rows, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeIndex) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	for key := range f.rows {
		if strings.HasPrefix(key, prefix) {
			delete(f.rows, key)
			n++
		}
	}
	return n, nil
}

// helpers

func (f *fakeCatalog) productByTitle(title string) *fakeProduct {
	id, ok := f.byTitle[title]
	if !ok {
		return nil
	}
	return f.products[id]
}

func (f *fakeProduct) variantByTitle(title string) *catalog.Variant {
	for i := range f.variants {
		if f.variants[i].Title == title {
			return &f.variants[i]
		}
	}
	return nil
}
