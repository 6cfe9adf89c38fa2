package middleware

// cache.go caches public calendar feed responses in redis.  The feed
// only changes when a batch changes the catalog, so cached months stay
// valid until the next apply/import flushes them.

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ecomslots/slotsync/internal/config"
)

// FeedCache is the response cache of the public feed routes.  It is
// keyed on the request parameters that shape the assembled month and
// flushed whenever a non-dry-run batch mutates the catalog.
type FeedCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewFeedCache builds a feed cache.  A nil redis client or a disabled
// config yields a pass-through middleware and a no-op Invalidate.
func NewFeedCache(cfg config.CacheConfig, rdb *redis.Client) *FeedCache {
	return &FeedCache{cfg: cfg, rdb: rdb}
}

func (fc *FeedCache) enabled() bool {
	return fc != nil && fc.cfg.Enabled && fc.rdb != nil
}

// key hashes the parts of the request that influence the assembled
// feed.  The default "month" strategy keys on route + month +
// collection + titleBase, so unrelated query noise cannot fragment
// the cache; "route_query" falls back to the raw query string.
func (fc *FeedCache) key(c echo.Context) string {
	var tail string
	switch strings.ToLower(fc.cfg.KeyStrategy) {
	case "route_query":
		tail = c.Path() + "?" + c.Request().URL.RawQuery
	default: // "month"
		tail = strings.Join([]string{
			c.Path(),
			c.QueryParam("month"),
			c.QueryParam("collection"),
			c.QueryParam("titleBase"),
		}, "|")
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", fc.cfg.Prefix, sum)
}

// cachedResponse is the stored shape of one feed response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// feedRecorder buffers the response body as it streams to the client
// so a successful response can be stored after the handler returns.
type feedRecorder struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int
	oversized bool
}

func (r *feedRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *feedRecorder) Write(b []byte) (int, error) {
	if !r.oversized {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.oversized = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// Middleware serves cached feed responses and stores fresh ones.
// Only configured methods participate and only 200 responses are
// stored; an oversized body is served but never cached.
func (fc *FeedCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !fc.enabled() || !fc.cfg.Methods[c.Request().Method] {
				return next(c)
			}

			key := fc.key(c)
			if raw, err := fc.rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					if cached.ContentType != "" {
						c.Response().Header().Set(echo.HeaderContentType, cached.ContentType)
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, _ = c.Response().Write(cached.Body)
					return nil
				}
			}

			rec := &feedRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: fc.cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && !rec.oversized {
				payload, err := json.Marshal(cachedResponse{
					Status:      rec.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        rec.buf.Bytes(),
				})
				if err == nil {
					// Detached context: the store must not race the
					// request context being canceled on return.
					_ = fc.rdb.SetEx(context.Background(), key, payload, fc.ttl()).Err()
				}
			}
			return nil
		}
	}
}

func (fc *FeedCache) ttl() time.Duration {
	if fc.cfg.TTL > 0 {
		return fc.cfg.TTL
	}
	return time.Minute
}

// Invalidate drops every cached feed response.  Called after a
// non-dry-run batch so the next feed read reflects the new catalog.
// Best-effort: a scan failure just leaves entries to expire by TTL.
func (fc *FeedCache) Invalidate(ctx context.Context) {
	if !fc.enabled() {
		return
	}
	var cursor uint64
	for {
		keys, next, err := fc.rdb.Scan(ctx, cursor, fc.cfg.Prefix+":*", 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			_ = fc.rdb.Del(ctx, keys...).Err()
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
