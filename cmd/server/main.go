package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/ecomslots/slotsync/internal/catalog"
	"github.com/ecomslots/slotsync/internal/config"
	"github.com/ecomslots/slotsync/internal/database"
	"github.com/ecomslots/slotsync/internal/handler"
	"github.com/ecomslots/slotsync/internal/middleware"
	"github.com/ecomslots/slotsync/internal/queue"
	"github.com/ecomslots/slotsync/internal/reconcile"
	"github.com/ecomslots/slotsync/internal/repository"
	"github.com/ecomslots/slotsync/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.Load()

	// Commerce backend client; the configured location short-circuits
	// the location lookup.
	cat := catalog.New(cfg.ShopAPIURL, cfg.ShopAPIToken)
	cat.DefaultLocation = cfg.ShopLocationID

	// Slot identity index is optional: without a DB the engine falls
	// back to pure title lookups.  The interface stays nil when the
	// index is disabled.
	var idx reconcile.RefIndex
	if cfg.IndexEnabled() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logrus.WithError(err).Fatal("database connection failed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.EnsureSchema(ctx, db); err != nil {
			cancel()
			logrus.WithError(err).Fatal("schema setup failed")
		}
		cancel()
		idx = repository.NewSlotIndexRepo(db)
	}

	pub := queue.NewPublisher(cfg.RabbitURL, logrus.WithField("component", "queue"))

	// Redis backs the feed response cache and the admin rate limiter;
	// both degrade to no-ops when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, cache and rate limiting disabled")
	}
	feedCache := middleware.NewFeedCache(config.LoadCacheConfig(), rdb)
	rateMw := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	admin := handler.NewAdminHandler(cat, idx, pub, cfg.BundleCollection, feedCache)
	feedH := handler.NewFeedHandler(cat, cfg.BundleCollection)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAdmin(e, admin, feedH, cfg.AdminSecret, rateMw)
	router.RegisterFeed(e, feedH, feedCache.Middleware())

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
