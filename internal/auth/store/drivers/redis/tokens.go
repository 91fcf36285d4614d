package redis

import (
	"context"
	"time"
)

const refreshKeyPrefix = "refresh_token:"

func refreshKey(subject string) string { return refreshKeyPrefix + subject }

// SetRefreshToken overwrites any previous token for subject in a single SET,
// so readers see either the old or the new value.
func (c *Cache) SetRefreshToken(ctx context.Context, subject, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return mapErr(c.client.Set(ctx, refreshKey(subject), token, ttl).Err())
}

func (c *Cache) GetRefreshToken(ctx context.Context, subject string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	token, err := c.client.Get(ctx, refreshKey(subject)).Result()
	if err != nil {
		return "", mapErr(err)
	}
	return token, nil
}

// DeleteRefreshToken succeeds whether or not a token was stored.
func (c *Cache) DeleteRefreshToken(ctx context.Context, subject string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return mapErr(c.client.Del(ctx, refreshKey(subject)).Err())
}
