// Package config loads service settings from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CacheNone     = "none"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

type Config struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`

	CacheBackend string        `yaml:"cache_backend"`
	DBPath       string        `yaml:"db_path"`
	DatabaseURL  string        `yaml:"database_url"`
	RedisAddr    string        `yaml:"redis_addr"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	SeedPath     string        `yaml:"seed_path"`

	GraphRoot string `yaml:"graph_root"`

	NominatimURL    string        `yaml:"nominatim_url"`
	OverpassURL     string        `yaml:"overpass_url"`
	OSRMURL         string        `yaml:"osrm_url"`
	UserAgent       string        `yaml:"user_agent"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	OverpassTimeout time.Duration `yaml:"overpass_timeout"`

	MemoSize      int `yaml:"memo_size"`
	GraphMemoSize int `yaml:"graph_memo_size"`

	SentryDSN string `yaml:"sentry_dsn"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		Env:             "development",
		CacheBackend:    CacheSQLite,
		DBPath:          "data/app.db",
		CacheTTL:        30 * 24 * time.Hour,
		SeedPath:        "data/seeds/places.json",
		GraphRoot:       "Graph_Network",
		NominatimURL:    "https://nominatim.openstreetmap.org",
		OverpassURL:     "https://overpass-api.de/api/interpreter",
		OSRMURL:         "http://router.project-osrm.org",
		UserAgent:       "geo-route-service/1.0",
		HTTPTimeout:     10 * time.Second,
		OverpassTimeout: 180 * time.Second,
		MemoSize:        1024,
		GraphMemoSize:   16,
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then environment variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Get returns the environment value for key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	strs := map[string]*string{
		"PORT":          &c.Port,
		"ENV":           &c.Env,
		"CACHE_BACKEND": &c.CacheBackend,
		"DB_PATH":       &c.DBPath,
		"DATABASE_URL":  &c.DatabaseURL,
		"REDIS_ADDR":    &c.RedisAddr,
		"SEED_PATH":     &c.SeedPath,
		"GRAPH_ROOT":    &c.GraphRoot,
		"NOMINATIM_URL": &c.NominatimURL,
		"OVERPASS_URL":  &c.OverpassURL,
		"OSRM_URL":      &c.OSRMURL,
		"USER_AGENT":    &c.UserAgent,
		"SENTRY_DSN":    &c.SentryDSN,
	}
	for key, dst := range strs {
		*dst = Get(key, *dst)
	}

	durations := map[string]*time.Duration{
		"CACHE_TTL":        &c.CacheTTL,
		"HTTP_TIMEOUT":     &c.HTTPTimeout,
		"OVERPASS_TIMEOUT": &c.OverpassTimeout,
	}
	for key, dst := range durations {
		v := Get(key, "")
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
	}

	ints := map[string]*int{
		"MEMO_SIZE":       &c.MemoSize,
		"GRAPH_MEMO_SIZE": &c.GraphMemoSize,
	}
	for key, dst := range ints {
		v := Get(key, "")
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.CacheBackend {
	case CacheNone, CacheSQLite:
	case CachePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres cache backend"))
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis cache backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	if c.MemoSize <= 0 {
		errs = append(errs, fmt.Errorf("MEMO_SIZE must be positive, got %d", c.MemoSize))
	}
	if c.GraphMemoSize <= 0 {
		errs = append(errs, fmt.Errorf("GRAPH_MEMO_SIZE must be positive, got %d", c.GraphMemoSize))
	}
	if c.HTTPTimeout <= 0 || c.OverpassTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT and OVERPASS_TIMEOUT must be positive"))
	}
	if strings.TrimSpace(c.GraphRoot) == "" {
		errs = append(errs, errors.New("GRAPH_ROOT must not be empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
