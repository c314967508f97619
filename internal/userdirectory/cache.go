package userdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "userdir:user:"
	cacheKeyAll    = "userdir:all"
)

// CachedDirectory is a read-through Redis cache in front of another
// directory. Cache faults are logged and fall through to the origin.
type CachedDirectory struct {
	next   Directory
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedDirectory(next Directory, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedDirectory {
	return &CachedDirectory{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedDirectory) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	key := cacheKeyPrefix + strconv.FormatInt(userID, 10)
	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var user User
		if jsonErr := json.Unmarshal([]byte(raw), &user); jsonErr == nil {
			return &user, nil
		}
	case !errors.Is(err, redis.Nil):
		c.warn(ctx, "user cache read failed", err)
	}

	user, err := c.next.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Only hits are cached; a user created upstream must be visible at once.
	if user == nil {
		return nil, nil
	}
	payload, _ := json.Marshal(user)
	if err := c.rdb.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		c.warn(ctx, "user cache write failed", err)
	}
	return user, nil
}

func (c *CachedDirectory) GetAllUsers(ctx context.Context) ([]User, error) {
	raw, err := c.rdb.Get(ctx, cacheKeyAll).Bytes()
	if err == nil {
		var users []User
		if jsonErr := json.Unmarshal(raw, &users); jsonErr == nil {
			return users, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.warn(ctx, "user list cache read failed", err)
	}

	users, err := c.next.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(users)
	if err := c.rdb.Set(ctx, cacheKeyAll, payload, c.ttl).Err(); err != nil {
		c.warn(ctx, "user list cache write failed", err)
	}
	return users, nil
}

func (c *CachedDirectory) warn(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "error", err)
	}
}
