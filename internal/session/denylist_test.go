package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisDenylist(t *testing.T) (*RedisDenylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDenylist(client), mr
}

func TestRedisDenylistRevokeExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	denylist, mr := newRedisDenylist(t)

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL(denylistPrefix + "jti-1")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, ttl)

	mr.FastForward(time.Hour + time.Second)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisDenylistIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	denylist, mr := newRedisDenylist(t)

	require.NoError(t, denylist.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(denylistPrefix+"old"))
	require.NoError(t, denylist.Revoke(ctx, "", time.Now().Add(time.Hour)))
}

func TestRedisDenylistSurfacesErrors(t *testing.T) {
	denylist, mr := newRedisDenylist(t)
	mr.Close()

	_, err := denylist.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}

func TestNopDenylist(t *testing.T) {
	var d Denylist = NopDenylist{}
	require.NoError(t, d.Revoke(context.Background(), "x", time.Now().Add(time.Hour)))
	revoked, err := d.IsRevoked(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, revoked)
}
