package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"geo-route-service/internal/domain"
)

// dedupe trims keys and drops blanks and repeats, keeping first-seen order.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

func scanPoints(rows *sql.Rows, capacity int) (map[string]domain.GeoPoint, error) {
	out := make(map[string]domain.GeoPoint, capacity)
	for rows.Next() {
		var place string
		var lat, lon float64
		if err := rows.Scan(&place, &lat, &lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[place] = domain.GeoPoint{Lat: lat, Lon: lon}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}
	return out, nil
}

func scanRoutes(rows *sql.Rows, capacity int) (map[string]domain.RemoteRoute, error) {
	out := make(map[string]domain.RemoteRoute, capacity)
	for rows.Next() {
		var dest string
		var meters, seconds float64
		if err := rows.Scan(&dest, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get route cache: scan rows: %w", err)
		}
		out[dest] = domain.RemoteRoute{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route cache: row iteration: %w", err)
	}
	return out, nil
}

func putPoints(ctx context.Context, db *sql.DB, upsert string, results map[string]domain.GeoPoint) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for place, p := range results {
		if strings.TrimSpace(place) == "" {
			return fmt.Errorf("insert geocode cache: empty place key")
		}

		if _, err := stmt.ExecContext(ctx, place, p.Lat, p.Lon); err != nil {
			return fmt.Errorf("insert geocode cache place=%q: %w", place, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}

func putRoutes(ctx context.Context, db *sql.DB, upsert, origin string, results map[string]domain.RemoteRoute) error {
	if origin == "" {
		return fmt.Errorf("insert route cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert route cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return fmt.Errorf("insert route cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert route cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert route cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert route cache commit: %w", err)
	}

	return nil
}
