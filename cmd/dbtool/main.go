package main

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"geo-route-service/internal/adapters/cache"
	"geo-route-service/internal/config"
	"geo-route-service/internal/platform/db"
	"geo-route-service/internal/ports"

	"github.com/joho/godotenv"
)

// dbtool creates the cache tables and seeds known places into the geocode cache.
// DB_DRIVER selects postgres (default, needs DATABASE_URL) or sqlite (DB_PATH).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	driver := strings.ToLower(config.Get("DB_DRIVER", config.CachePostgres))

	var (
		conn    *sql.DB
		dialect cache.Dialect
		err     error
	)
	switch driver {
	case config.CachePostgres:
		databaseURL := config.Get("DATABASE_URL", "")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL is required")
		}
		conn, err = db.OpenPostgres(databaseURL)
		dialect = cache.Postgres
	case config.CacheSQLite:
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		dialect = cache.SQLite
	default:
		log.Fatalf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	if err := initAndSeed(ctx, conn, dialect, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect cache.Dialect, seedPath string) error {
	log.Printf("Initializing cache schema dialect=%s...", dialect)
	if err := cache.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	var c ports.GeocodeCache = cache.NewSQLGeocodeCache(conn)
	if dialect == cache.SQLite {
		c = cache.NewSqliteGeocodeCache(conn)
	}

	log.Printf("Seeding geocode cache path=%s...", seedPath)
	n, err := cache.SeedGeocodeFromJSON(ctx, c, seedPath)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete places=%d", n)
	return nil
}
