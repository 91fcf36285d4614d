package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
)

const userKeyPrefix = "user:"

func userKey(username string) string { return userKeyPrefix + username }

func (c *Cache) GetUser(ctx context.Context, username string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		return domain.User{}, mapErr(err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return domain.User{}, fmt.Errorf("decode cached user: %w", err)
	}
	return u, nil
}

func (c *Cache) SetUser(ctx context.Context, u domain.User, ttl time.Duration) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return mapErr(c.client.Set(ctx, userKey(u.Username), raw, ttl).Err())
}

func (c *Cache) DeleteUser(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return mapErr(c.client.Del(ctx, userKey(username)).Err())
}
