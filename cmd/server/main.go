package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geo-route-service/internal/adapters/geocode"
	"geo-route-service/internal/adapters/graphstore"
	"geo-route-service/internal/adapters/osrm"
	"geo-route-service/internal/adapters/overpass"
	"geo-route-service/internal/adapters/pathing"
	"geo-route-service/internal/api"
	"geo-route-service/internal/api/handlers"
	"geo-route-service/internal/config"
	"geo-route-service/internal/platform/httpx"
	"geo-route-service/internal/platform/report"
	"geo-route-service/internal/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// writeSlack covers path search and response encoding after the last upstream call.
const writeSlack = 30 * time.Second

// main is the application composition root.
// It wires concrete adapters (Nominatim, Overpass, OSRM, caches) behind ports and starts the
// HTTP server.
func main() {
	if err := run(); err != nil {
		report.Flush()
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := report.Setup(cfg.SentryDSN, cfg.Env, version); err != nil {
		log.Printf("sentry disabled: %v", err)
	}
	defer report.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	caches, err := openCaches(ctx, cfg)
	if err != nil {
		return err
	}
	defer caches.Close()

	router, budget, err := buildRouter(cfg, caches)
	if err != nil {
		return err
	}

	// Upstream calls are bounded by budget, so a fully retried fetch still gets its response
	// written.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      budget + writeSlack,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s env=%s cache=%s", cfg.Port, cfg.Env, cfg.CacheBackend)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// buildRouter wires the API and returns the longest time a request can spend waiting on
// upstream services: a geocode followed by a fully retried network fetch.
func buildRouter(cfg config.Config, caches *cacheSet) (http.Handler, time.Duration, error) {
	nominatimHTTP := httpx.New("nominatim", cfg.UserAgent, cfg.HTTPTimeout)
	overpassHTTP := httpx.New("overpass", cfg.UserAgent, cfg.OverpassTimeout+10*time.Second, httpx.WithMaxAttempts(3))
	osrmHTTP := httpx.New("osrm", cfg.UserAgent, cfg.HTTPTimeout)
	budget := nominatimHTTP.Budget() + overpassHTTP.Budget()

	geocoder, err := geocode.NewNominatimGeocoder(cfg.NominatimURL, nominatimHTTP)
	if err != nil {
		return nil, 0, err
	}
	provider, err := overpass.NewProvider(cfg.OverpassURL, overpassHTTP, cfg.OverpassTimeout)
	if err != nil {
		return nil, 0, err
	}
	router, err := osrm.NewClient(cfg.OSRMURL, osrmHTTP)
	if err != nil {
		return nil, 0, err
	}

	resolver, err := services.NewResolver(geocoder, caches.geocode, cfg.MemoSize)
	if err != nil {
		return nil, 0, err
	}
	network, err := services.NewNetworkService(provider, resolver, cfg.GraphMemoSize)
	if err != nil {
		return nil, 0, err
	}
	planner, err := services.NewRoutePlanner(network, pathing.NewFinder(), cfg.MemoSize)
	if err != nil {
		return nil, 0, err
	}
	remote, err := services.NewRemoteRouter(router, caches.routes, cfg.MemoSize)
	if err != nil {
		return nil, 0, err
	}

	return api.NewRouter(api.Handlers{
		Health:  &handlers.HealthHandler{Env: cfg.Env, CacheBackend: cfg.CacheBackend},
		Geocode: &handlers.GeocodeHandler{Resolver: resolver},
		Routes:  &handlers.RouteHandler{Planner: planner, Remote: remote},
		Graphs: &handlers.GraphHandler{
			Network: network,
			Store:   graphstore.NewFileStore(cfg.GraphRoot),
			GeoJSON: graphstore.ExportGeoJSON,
		},
	}), budget, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
