package handler // handler contains the HTTP handlers of the service

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ecomslots/slotsync/internal/feed"
)

// monthRe validates the month query parameter (YYYY-MM).
var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// FeedHandler serves the calendar feeds assembled from bundle
// products.  The public route is read-only and cache-friendly; the
// admin route additionally resolves variant identifiers by title.
type FeedHandler struct {
	Src        feed.Source
	Collection string // default collection handle
}

// NewFeedHandler constructs a FeedHandler and panics on a nil source.
func NewFeedHandler(src feed.Source, collection string) *FeedHandler {
	if src == nil {
		panic("nil source passed to NewFeedHandler")
	}
	return &FeedHandler{Src: src, Collection: collection}
}

// Calendar handles GET /v1/feed/calendar?month=YYYY-MM.  An optional
// collection parameter overrides the configured collection handle.
func (h *FeedHandler) Calendar(c echo.Context) error {
	month := c.QueryParam("month")
	if !monthRe.MatchString(month) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM"})
	}
	collection := c.QueryParam("collection")
	if collection == "" {
		collection = h.Collection
	}
	out, err := feed.AssembleMonth(c.Request().Context(), h.Src, collection, month)
	if err != nil {
		logrus.WithError(err).WithField("month", month).Error("feed assembly failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// AdminCalendar handles GET /v1/admin/feed/calendar.  On top of the
// public assembly it resolves missing variant ids by reconstructing
// the expected bundle titles, which requires the titleBase parameter.
func (h *FeedHandler) AdminCalendar(c echo.Context) error {
	month := c.QueryParam("month")
	if !monthRe.MatchString(month) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM"})
	}
	titleBase := c.QueryParam("titleBase")
	if titleBase == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "titleBase is required"})
	}
	collection := c.QueryParam("collection")
	if collection == "" {
		collection = h.Collection
	}
	out, err := feed.AssembleAdminMonth(c.Request().Context(), h.Src, collection, month, titleBase)
	if err != nil {
		logrus.WithError(err).WithField("month", month).Error("admin feed assembly failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
