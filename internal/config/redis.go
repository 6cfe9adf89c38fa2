package config

// Redis backs two side concerns of this service: the public feed
// response cache and the admin rate limiter.  Both are optional, so a
// failed connection at startup returns nil and the middlewares built
// on it degrade to pass-throughs.

import (
	"context"
	"crypto/tls"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from REDIS_ADDR (host:port), or
// REDIS_HOST + REDIS_PORT, with REDIS_PASSWORD, REDIS_DB and
// REDIS_TLS applied on top.  Returns nil when the server does not
// answer a ping within two seconds.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "")
	if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}

	db, _ := strconv.Atoi(getenv("REDIS_DB", "0"))

	opts := &redis.Options{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       db,
	}
	if v := getenv("REDIS_TLS", ""); v == "1" || strings.EqualFold(v, "true") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
