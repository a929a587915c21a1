package cache

import (
	"context"
	"testing"
	"time"

	"geo-route-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisGeocodeCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, time.Hour)

	ferry := domain.GeoPoint{Lat: -6.82186645, Lon: 39.301757704855774}
	require.NoError(t, c.PutMany(ctx, map[string]domain.GeoPoint{"Kigamboni Ferry Terminal": ferry}))

	assert.True(t, mr.Exists("geocode:Kigamboni Ferry Terminal"))
	assert.Equal(t, time.Hour, mr.TTL("geocode:Kigamboni Ferry Terminal"))

	got, err := c.GetMany(ctx, []string{"Kigamboni Ferry Terminal", "Unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.GeoPoint{"Kigamboni Ferry Terminal": ferry}, got)

	mr.FastForward(2 * time.Hour)
	got, err = c.GetMany(ctx, []string{"Kigamboni Ferry Terminal"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisRouteCache(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	c := NewRedisRouteCache(client, 0)

	origin := "-6.82186645,39.301757704855774"
	want := domain.RemoteRoute{DistanceMeters: 3021.4, DurationSeconds: 412.7}
	require.NoError(t, c.PutMany(ctx, origin, map[string]domain.RemoteRoute{"-6.8163,39.2803": want}))

	got, err := c.GetMany(ctx, origin, []string{"-6.8163,39.2803", "0,0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.RemoteRoute{"-6.8163,39.2803": want}, got)

	_, err = c.GetMany(ctx, "", []string{"x"})
	assert.Error(t, err)
}

func TestRedisCacheCorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client, 0)

	require.NoError(t, mr.Set("geocode:Broken", "not json"))
	_, err := c.GetMany(ctx, []string{"Broken"})
	assert.ErrorContains(t, err, "decode")
}
