// Package redis implements the token and user caches on top of Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds every cache round trip.
const DefaultOpTimeout = 2 * time.Second

type Config struct {
	Addr     string
	Password string
	DB       int

	// OpTimeout defaults to DefaultOpTimeout.
	OpTimeout time.Duration
}

// Cache implements store.TokenCache and store.UserCache over one client.
type Cache struct {
	client    goredis.UniversalClient
	opTimeout time.Duration
}

var (
	_ store.TokenCache = (*Cache)(nil)
	_ store.UserCache  = (*Cache)(nil)
)

// Open dials Redis and pings it once so misconfiguration fails at startup.
func Open(ctx context.Context, cfg Config) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		// Retries would hide an outage behind the op timeout.
		MaxRetries: -1,
	})

	c := New(client, cfg.OpTimeout)
	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an existing client. The caller keeps ownership of client unless
// Close is called.
func New(client goredis.UniversalClient, opTimeout time.Duration) *Cache {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &Cache{client: client, opTimeout: opTimeout}
}

func (c *Cache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return mapErr(c.client.Ping(ctx).Err())
}

func (c *Cache) Close() error { return c.client.Close() }

// mapErr turns a missing key into store.ErrCacheMiss and any other failure
// into store.ErrCacheUnavailable.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, goredis.Nil):
		return store.ErrCacheMiss
	default:
		return fmt.Errorf("%w: %v", store.ErrCacheUnavailable, err)
	}
}
