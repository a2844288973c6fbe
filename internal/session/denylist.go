package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked session ids until their tokens expire.
type Denylist interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// NopDenylist is used when server side revocation is disabled.
type NopDenylist struct{}

func (NopDenylist) Revoke(context.Context, string, time.Time) error { return nil }

func (NopDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

const denylistPrefix = "sis:session:revoked:"

// RedisDenylist stores revoked ids as keys that expire with the token, so no
// cleanup sweep is needed.
type RedisDenylist struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisDenylist builds a Redis backed denylist.
func NewRedisDenylist(client redis.Cmdable) *RedisDenylist {
	return &RedisDenylist{client: client, now: time.Now}
}

// Revoke marks id as revoked until the given expiry. Already expired tokens
// are ignored.
func (d *RedisDenylist) Revoke(ctx context.Context, id string, until time.Time) error {
	if id == "" {
		return nil
	}
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistPrefix+id, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether id has been revoked.
func (d *RedisDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	err := d.client.Get(ctx, denylistPrefix+id).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return true, nil
}
