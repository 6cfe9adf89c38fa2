package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles routing

	"github.com/ecomslots/slotsync/internal/handler"    // handlers implement the endpoint logic
	"github.com/ecomslots/slotsync/internal/middleware" // middleware provides auth, cache and rate limiting
)

// RegisterRoutes registers routes that require no authentication.
// Currently this is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAdmin registers the batch endpoints and the admin feed
// under /v1/admin.  Every route is guarded by the shared-secret
// middleware; the rate limiter, when enabled, applies on top of it.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, f *handler.FeedHandler, secret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1/admin")
	g.Use(middleware.RequireSecret(secret))
	for _, mw := range extra {
		g.Use(mw)
	}
	// Manual-range batch: derive slots from a date range and a price table.
	g.POST("/slots/apply", a.Apply)
	// External-feed ingestion: reconcile a pre-built slot feed.
	g.POST("/slots/import", a.Import)
	// Identity-index maintenance: drop the rows of one event.
	g.DELETE("/slots/index", a.PurgeIndex)
	// Admin calendar: public assembly plus resolved variant ids.
	g.GET("/feed/calendar", f.AdminCalendar)
}

// RegisterFeed registers the public read-only calendar feed.  The
// optional middleware is the redis response cache.
func RegisterFeed(e *echo.Echo, f *handler.FeedHandler, extra ...echo.MiddlewareFunc) {
	route := e.Group("/v1/feed")
	for _, mw := range extra {
		route.Use(mw)
	}
	route.GET("/calendar", f.Calendar)
}
