package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores geocode and route results as JSON values under
// "geocode:<place>" and "route:<origin>|<destination>". A zero TTL keeps entries forever.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

var (
	_ ports.GeocodeCache = (*RedisGeocodeCache)(nil)
	_ ports.RouteCache   = (*RedisRouteCache)(nil)
)

type RedisGeocodeCache struct{ RedisCache }

type RedisRouteCache struct{ RedisCache }

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{RedisCache{Client: client, TTL: ttl}}
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{RedisCache{Client: client, TTL: ttl}}
}

func geocodeKey(place string) string { return "geocode:" + place }

func routeKey(origin, dest string) string { return "route:" + origin + "|" + dest }

type pointValue struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type routeValue struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// mget fetches keys in one round trip and hands every present value to decode.
func (c RedisCache) mget(ctx context.Context, keys []string, decode func(i int, raw string) error) error {
	if c.Client == nil {
		return errors.New("redis cache: client is nil")
	}
	if len(keys) == 0 {
		return nil
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("redis cache: mget: %w", err)
	}

	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		if err := decode(i, raw); err != nil {
			return fmt.Errorf("redis cache: decode %q: %w", keys[i], err)
		}
	}
	return nil
}

func (c RedisCache) mset(ctx context.Context, values map[string]any) error {
	if c.Client == nil {
		return errors.New("redis cache: client is nil")
	}
	if len(values) == 0 {
		return nil
	}

	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %q: %w", k, err)
			}
			pipe.Set(ctx, k, b, c.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis cache: set: %w", err)
	}
	return nil
}

func (c *RedisGeocodeCache) GetMany(ctx context.Context, places []string) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	uniq := dedupe(places)
	keys := make([]string, len(uniq))
	for i, p := range uniq {
		keys[i] = geocodeKey(p)
	}

	out := make(map[string]domain.GeoPoint, len(uniq))
	err = c.mget(ctx, keys, func(i int, raw string) error {
		var v pointValue
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		out[uniq[i]] = domain.GeoPoint{Lat: v.Lat, Lon: v.Lon}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	values := make(map[string]any, len(results))
	for place, p := range results {
		if strings.TrimSpace(place) == "" {
			return fmt.Errorf("insert geocode cache: empty place key")
		}
		values[geocodeKey(place)] = pointValue{Lat: p.Lat, Lon: p.Lon}
	}
	if err := c.mset(ctx, values); err != nil {
		return fmt.Errorf("insert geocode cache: %w", err)
	}
	return nil
}

func (c *RedisRouteCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]domain.RemoteRoute, err error) {
	defer obs.Time(ctx, "route.cache.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get route cache: origin must not be empty")
	}

	uniq := dedupe(destinations)
	keys := make([]string, len(uniq))
	for i, d := range uniq {
		keys[i] = routeKey(origin, d)
	}

	out := make(map[string]domain.RemoteRoute, len(uniq))
	err = c.mget(ctx, keys, func(i int, raw string) error {
		var v routeValue
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return err
		}
		out[uniq[i]] = domain.RemoteRoute{DistanceMeters: v.DistanceMeters, DurationSeconds: v.DurationSeconds}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get route cache: %w", err)
	}
	return out, nil
}

func (c *RedisRouteCache) PutMany(ctx context.Context, origin string, results map[string]domain.RemoteRoute) error {
	if origin == "" {
		return errors.New("insert route cache: origin must not be empty")
	}

	values := make(map[string]any, len(results))
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert route cache: empty destination key")
		}
		values[routeKey(origin, dest)] = routeValue{DistanceMeters: r.DistanceMeters, DurationSeconds: r.DurationSeconds}
	}
	if err := c.mset(ctx, values); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}
	return nil
}
