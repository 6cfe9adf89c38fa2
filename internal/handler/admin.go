package handler // handler contains the HTTP handlers of the service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ecomslots/slotsync/internal/calendar"
	"github.com/ecomslots/slotsync/internal/feed"
	"github.com/ecomslots/slotsync/internal/model"
	"github.com/ecomslots/slotsync/internal/queue"
	"github.com/ecomslots/slotsync/internal/reconcile"
	"github.com/ecomslots/slotsync/internal/repository"
)

// CacheInvalidator drops cached feed responses after a batch changes
// the catalog.  *middleware.FeedCache implements it.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// AdminHandler bundles the dependencies of the batch endpoints.  A
// fresh reconcile.Batch is built per request so its lookup cache
// never outlives the request.
type AdminHandler struct {
	Cat        reconcile.Catalog
	Idx        reconcile.RefIndex // nil when the identity index is disabled
	Publisher  *queue.Publisher
	Collection string
	Cache      CacheInvalidator // nil when no feed cache is configured
}

// NewAdminHandler constructs an AdminHandler and panics if the
// catalog or publisher dependency is missing.
func NewAdminHandler(cat reconcile.Catalog, idx reconcile.RefIndex, pub *queue.Publisher, collection string, cache CacheInvalidator) *AdminHandler {
	if cat == nil || pub == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Cat: cat, Idx: idx, Publisher: pub, Collection: collection, Cache: cache}
}

// Apply handles POST /v1/admin/slots/apply: the manual-range batch.
// Dry-run is selected by the body flag or ?dry_run=true.  Input
// errors are 400; a backend failure aborts the request with a 500
// carrying the underlying message and the failing slot.
func (h *AdminHandler) Apply(c echo.Context) error {
	var in model.ApplyInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if c.QueryParam("dry_run") == "true" {
		in.DryRun = true
	}
	if in.Event == "" || in.TitleBase == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "event and titleBase are required"})
	}
	if in.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "capacity must be greater than zero"})
	}
	if _, err := calendar.ParseDate(in.StartDate); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid startDate"})
	}
	if _, err := calendar.ParseDate(in.EndDate); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid endDate"})
	}

	log := logrus.WithFields(logrus.Fields{"route": "apply", "event": in.Event})
	batch := reconcile.NewBatch(h.Cat, h.Idx, h.Collection, log)
	res, err := batch.Run(c.Request().Context(), in)
	if err != nil {
		log.WithError(err).Error("apply batch failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if !in.DryRun {
		_ = h.Publisher.PublishSlotsApplied(c.Request().Context(), queue.SlotsAppliedEvent{
			Event:     in.Event,
			Source:    "apply",
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Summary:   res.Summary,
			Warnings:  len(res.Warnings),
			AppliedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if h.Cache != nil {
			h.Cache.Invalidate(c.Request().Context())
		}
	}
	return c.JSON(http.StatusOK, res)
}

// Import handles POST /v1/admin/slots/import: the external-feed
// ingestion path.  The feed is fetched before the batch starts; a
// fetch failure is a 502 and no slot is processed.  Per-slot backend
// failures do not abort the batch on this path.
func (h *AdminHandler) Import(c echo.Context) error {
	var in model.ImportInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if c.QueryParam("dry_run") == "true" {
		in.DryRun = true
	}
	if in.Event == "" || in.TitleBase == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "event and titleBase are required"})
	}
	if in.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "capacity must be greater than zero"})
	}

	slots := in.Slots
	if in.FeedURL != "" {
		fetched, err := feed.FetchSlots(c.Request().Context(), in.FeedURL)
		if err != nil {
			if errors.Is(err, feed.ErrUpstreamFeed) {
				return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		slots = fetched
	}
	if len(slots) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no slots to import"})
	}

	log := logrus.WithFields(logrus.Fields{"route": "import", "event": in.Event})
	batch := reconcile.NewBatch(h.Cat, h.Idx, h.Collection, log)
	res, err := batch.RunImport(c.Request().Context(), in, slots)
	if err != nil {
		log.WithError(err).Error("import batch failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if !in.DryRun {
		_ = h.Publisher.PublishSlotsApplied(c.Request().Context(), queue.SlotsAppliedEvent{
			Event:     in.Event,
			Source:    "import",
			Summary:   res.Summary,
			Warnings:  len(res.Warnings),
			AppliedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if h.Cache != nil {
			h.Cache.Invalidate(c.Request().Context())
		}
	}
	return c.JSON(http.StatusOK, res)
}

// PurgeIndex handles DELETE /v1/admin/slots/index?event=...: it drops
// every identity-index row of one event.  Operator remediation after
// products were deleted on the backend; subsequent batches rebuild
// the rows from title lookups.
func (h *AdminHandler) PurgeIndex(c echo.Context) error {
	if h.Idx == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "identity index is not configured"})
	}
	event := c.QueryParam("event")
	if event == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "event is required"})
	}

	var deleted int64
	for _, prefix := range []string{repository.SeatKeyPrefix(event), repository.BundleKeyPrefix(event)} {
		n, err := h.Idx.DeleteByPrefix(c.Request().Context(), prefix)
		if err != nil {
			logrus.WithError(err).WithField("event", event).Error("index purge failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		deleted += n
	}
	logrus.WithFields(logrus.Fields{"event": event, "deleted": deleted}).Info("index purged")
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}
