package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/model"
	"github.com/ecomslots/slotsync/internal/queue"
	"github.com/ecomslots/slotsync/internal/repository"
)

// stubCatalog is a minimal happy-path backend for handler tests; the
// reconciliation logic itself is covered in the reconcile package.
type stubCatalog struct {
	nextID int
	titles map[string]string
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{titles: map[string]string{}}
}

func (s *stubCatalog) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *stubCatalog) FindProductByTitleAndTag(ctx context.Context, title, tag string) (string, error) {
	return s.titles[title], nil
}

func (s *stubCatalog) CreateProduct(ctx context.Context, in catalog.CreateProductInput) (string, error) {
	id := s.id("prod")
	s.titles[in.Title] = id
	return id, nil
}

func (s *stubCatalog) ListVariants(ctx context.Context, productID string) ([]catalog.Variant, error) {
	return nil, nil
}

func (s *stubCatalog) CreateVariants(ctx context.Context, productID string, inputs []catalog.VariantInput) ([]catalog.Variant, error) {
	out := make([]catalog.Variant, len(inputs))
	for i, in := range inputs {
		out[i] = catalog.Variant{ID: s.id("var"), Title: in.OptionValue, InventoryItemID: s.id("item")}
	}
	return out, nil
}

func (s *stubCatalog) ActivateInventory(ctx context.Context, itemID, locationID string, qty int) error {
	return nil
}

func (s *stubCatalog) SetInventoryAbsolute(ctx context.Context, itemID, locationID string, qty int) error {
	return nil
}

func (s *stubCatalog) UpsertVariantComponent(ctx context.Context, parentID, childID string, qty int) error {
	return nil
}

func (s *stubCatalog) SetVariantPrices(ctx context.Context, productID string, prices map[string]float64) error {
	return nil
}

func (s *stubCatalog) DefaultLocationID(ctx context.Context) (string, error) {
	return "loc-1", nil
}

func (s *stubCatalog) HolidayDates(ctx context.Context) (calendar.HolidaySet, error) {
	return calendar.HolidaySet{}, nil
}

func (s *stubCatalog) AddProductsToCollection(ctx context.Context, handle string, ids []string) error {
	return nil
}

// stubRefIndex records the prefixes purged from the identity index.
type stubRefIndex struct {
	purged []string
}

func (s *stubRefIndex) Get(ctx context.Context, key string) (*repository.Ref, error) {
	return nil, repository.ErrRefNotFound
}

func (s *stubRefIndex) Upsert(ctx context.Context, key, productID string) error { return nil }

func (s *stubRefIndex) Delete(ctx context.Context, key string) error { return nil }

func (s *stubRefIndex) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	s.purged = append(s.purged, prefix)
	return 2, nil
}

func newTestAdmin() *AdminHandler {
	return NewAdminHandler(newStubCatalog(), nil, queue.NewPublisher("", nil), "eventi", nil)
}

func doJSON(h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func postJSON(h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	return doJSON(h, http.MethodPost, path, body)
}

func TestApplyValidation(t *testing.T) {
	valid := `{"event":"museo","titleBase":"Museo","startDate":"2025-12-10","endDate":"2025-12-10",` +
		`"weekdaySlots":["15:00"],"capacity":30,"prices":{"feriali":{"unico":10}}}`

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", valid, http.StatusOK},
		{"malformed json", `{"event":`, http.StatusBadRequest},
		{"missing event", `{"titleBase":"Museo","startDate":"2025-12-10","endDate":"2025-12-10","capacity":30}`, http.StatusBadRequest},
		{"zero capacity", `{"event":"museo","titleBase":"Museo","startDate":"2025-12-10","endDate":"2025-12-10","capacity":0}`, http.StatusBadRequest},
		{"bad start date", `{"event":"museo","titleBase":"Museo","startDate":"10/12/2025","endDate":"2025-12-10","capacity":30}`, http.StatusBadRequest},
		{"bad end date", `{"event":"museo","titleBase":"Museo","startDate":"2025-12-10","endDate":"","capacity":30}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(newTestAdmin().Apply, "/v1/admin/slots/apply", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestApplyDryRunQueryParam(t *testing.T) {
	body := `{"event":"museo","titleBase":"Museo","startDate":"2025-12-10","endDate":"2025-12-10",` +
		`"weekdaySlots":["15:00"],"capacity":30,"prices":{"feriali":{"unico":10}}}`
	rec := postJSON(newTestAdmin().Apply, "/v1/admin/slots/apply?dry_run=true", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dryRun":true`)
	assert.Contains(t, rec.Body.String(), `"seatsCreated":1`)
}

func TestImportEmptySlots(t *testing.T) {
	body := `{"event":"museo","titleBase":"Museo","capacity":30,"prices":{"feriali":{"unico":10}}}`
	rec := postJSON(newTestAdmin().Import, "/v1/admin/slots/import", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportFeedFailureIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	body := fmt.Sprintf(`{"event":"museo","titleBase":"Museo","capacity":30,`+
		`"prices":{"feriali":{"unico":10}},"feedUrl":%q}`, srv.URL)
	rec := postJSON(newTestAdmin().Import, "/v1/admin/slots/import", body)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

// stubInvalidator counts feed-cache flushes.
type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) Invalidate(ctx context.Context) { s.calls++ }

func TestApplyInvalidatesFeedCache(t *testing.T) {
	body := `{"event":"museo","titleBase":"Museo","startDate":"2025-12-10","endDate":"2025-12-10",` +
		`"weekdaySlots":["15:00"],"capacity":30,"prices":{"feriali":{"unico":10}}}`

	inv := &stubInvalidator{}
	h := NewAdminHandler(newStubCatalog(), nil, queue.NewPublisher("", nil), "eventi", inv)
	rec := postJSON(h.Apply, "/v1/admin/slots/apply", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, inv.calls)

	// A dry run changes nothing, so the cache stays untouched.
	inv.calls = 0
	rec = postJSON(h.Apply, "/v1/admin/slots/apply?dry_run=true", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, inv.calls)
}

func TestPurgeIndex(t *testing.T) {
	idx := &stubRefIndex{}
	h := NewAdminHandler(newStubCatalog(), idx, queue.NewPublisher("", nil), "eventi", nil)

	rec := doJSON(h.PurgeIndex, http.MethodDelete, "/v1/admin/slots/index?event=museo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":4}`, rec.Body.String())
	assert.Equal(t, []string{"seat:museo:", "bundle:museo:"}, idx.purged)
}

func TestPurgeIndexRequiresEvent(t *testing.T) {
	h := NewAdminHandler(newStubCatalog(), &stubRefIndex{}, queue.NewPublisher("", nil), "eventi", nil)
	rec := doJSON(h.PurgeIndex, http.MethodDelete, "/v1/admin/slots/index", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurgeIndexWithoutIndex(t *testing.T) {
	rec := doJSON(newTestAdmin().PurgeIndex, http.MethodDelete, "/v1/admin/slots/index?event=museo", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportInlineSlots(t *testing.T) {
	body := `{"event":"museo","titleBase":"Museo","capacity":30,` +
		`"prices":{"feriali":{"adulto":11,"bambino":9,"handicap":11}},` +
		`"slots":[{"date":"2025-12-10","time":"15:00"}]}`
	rec := postJSON(newTestAdmin().Import, "/v1/admin/slots/import", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.ApplyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Summary.SeatsCreated)
	assert.Equal(t, 4, res.Summary.VariantsCreated)
	assert.Empty(t, res.Warnings)
}
