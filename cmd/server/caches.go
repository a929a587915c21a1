package main

import (
	"context"
	"fmt"
	"log"

	"geo-route-service/internal/adapters/cache"
	"geo-route-service/internal/config"
	"geo-route-service/internal/platform/db"
	"geo-route-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// cacheSet holds the persistent caches for the configured backend. Both are nil for "none".
type cacheSet struct {
	geocode ports.GeocodeCache
	routes  ports.RouteCache
	close   func() error
}

func (c *cacheSet) Close() {
	if c.close == nil {
		return
	}
	if err := c.close(); err != nil {
		log.Printf("close cache backend: %v", err)
	}
}

func openCaches(ctx context.Context, cfg config.Config) (*cacheSet, error) {
	var set *cacheSet

	switch cfg.CacheBackend {
	case config.CacheNone:
		return &cacheSet{}, nil

	case config.CacheSQLite:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := cache.InitSchema(ctx, conn, cache.SQLite); err != nil {
			conn.Close()
			return nil, err
		}
		set = &cacheSet{
			geocode: cache.NewSqliteGeocodeCache(conn),
			routes:  cache.NewSqliteRouteCache(conn),
			close:   conn.Close,
		}

	case config.CachePostgres:
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := cache.InitSchema(ctx, conn, cache.Postgres); err != nil {
			conn.Close()
			return nil, err
		}
		set = &cacheSet{
			geocode: cache.NewSQLGeocodeCache(conn),
			routes:  cache.NewSQLRouteCache(conn),
			close:   conn.Close,
		}

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("open redis %s: %w", cfg.RedisAddr, err)
		}
		set = &cacheSet{
			geocode: cache.NewRedisGeocodeCache(client, cfg.CacheTTL),
			routes:  cache.NewRedisRouteCache(client, cfg.CacheTTL),
			close:   client.Close,
		}

	default:
		return nil, fmt.Errorf("open caches: unsupported backend %q", cfg.CacheBackend)
	}

	// Seed known places on startup for local runs.
	if cfg.SeedPath != "" && fileExists(cfg.SeedPath) {
		n, err := cache.SeedGeocodeFromJSON(ctx, set.geocode, cfg.SeedPath)
		if err != nil {
			set.Close()
			return nil, fmt.Errorf("seed geocode cache: %w", err)
		}
		log.Printf("Seeded geocode cache places=%d path=%s", n, cfg.SeedPath)
	}

	return set, nil
}
