// Package cache wraps Redis as a best-effort accelerator. It is never the
// source of truth: every failure, including an unreachable server, is
// absorbed as a miss so callers always fall back to the ledger.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the contract consumed by repositories and services. Get reports
// false on any miss or failure; Set and Delete are fire-and-forget.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type Client struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

// New builds the process-wide cache client. The connection is established
// lazily on first use; an unreachable Redis only produces misses. defaultTTL
// applies to Set calls that pass no TTL of their own.
func New(addr, password string, db int, defaultTTL time.Duration) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	return &Client{rdb: rdb, defaultTTL: defaultTTL}
}

func (c *Client) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("cache get failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		slog.Debug("cache unmarshal failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.Debug("cache marshal failed", "key", key, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Debug("cache set failed", "key", key, "err", err)
	}
}

func (c *Client) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		slog.Debug("cache delete failed", "key", key, "err", err)
	}
}

func (c *Client) Close() error { return c.rdb.Close() }

// Keys are namespaced by entity kind and user id. Only the owning component
// writes or deletes a given key.

func BalanceKey(userID int64) string      { return fmt.Sprintf("balance:%d", userID) }
func TransactionsKey(userID int64) string { return fmt.Sprintf("transactions:%d", userID) }
