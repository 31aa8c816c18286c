package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adhamhusein/mio-super-app/config"
)

// Client wraps the Redis connection. It backs three concerns: the per-user
// timesheet wizard session store, the JWT blacklist, and the auth rate limit.
type Client struct {
	rdb        *goredis.Client
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewClient connects and pings Redis.
func NewClient(cfg *config.RedisConfig, sessionTTL time.Duration, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, sessionTTL: sessionTTL, logger: logger}, nil
}

// ── wizard session store ──

const sessionPrefix = "timesheet:session:"

func sessionKey(userID, key string) string {
	return sessionPrefix + userID + ":" + key
}

// SetSession stores a JSON-encoded value under the user's session key.
// The TTL only bounds abandoned sessions; logout clears keys explicitly.
func (c *Client) SetSession(ctx context.Context, userID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session value: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(userID, key), raw, c.sessionTTL).Err()
}

// GetSession loads a session value into dest. Returns false when the key is
// absent, leaving dest untouched.
func (c *Client) GetSession(ctx context.Context, userID, key string, dest interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, sessionKey(userID, key)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode session value: %w", err)
	}
	return true, nil
}

// ClearSession removes the given session keys for one user.
func (c *Client) ClearSession(ctx context.Context, userID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = sessionKey(userID, k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken marks a JWT ID revoked for the token's remaining lifetime.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether a JWT ID has been revoked.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limit ──

// CheckRateLimit counts a hit against key and reports whether it stays
// within limit for the window. The window starts at the first hit.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close releases the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
