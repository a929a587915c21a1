package api

import (
	"net/http"

	"geo-route-service/internal/api/handlers"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the handler sets the router exposes.
type Handlers struct {
	Health  *handlers.HealthHandler
	Geocode *handlers.GeocodeHandler
	Routes  *handlers.RouteHandler
	Graphs  *handlers.GraphHandler
}

// NewRouter registers every endpoint and wraps the router with request ID, logging and panic
// reporting. Handlers stay unaware of concrete adapters.
func NewRouter(h Handlers) http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/health", h.Health.Health)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.HandlerFunc(http.MethodGet, "/v1/bearing", handlers.Bearing)
	router.HandlerFunc(http.MethodGet, "/v1/distance", handlers.Distance)
	router.HandlerFunc(http.MethodGet, "/v1/center", handlers.Center)
	router.HandlerFunc(http.MethodGet, "/v1/geocode", h.Geocode.Geocode)

	router.HandlerFunc(http.MethodGet, "/v1/routes/shortest", h.Routes.Shortest)
	router.HandlerFunc(http.MethodGet, "/v1/routes/road-distance", h.Routes.RoadDistance)
	router.HandlerFunc(http.MethodGet, "/v1/routes/remote", h.Routes.Remote)
	router.HandlerFunc(http.MethodPost, "/v1/matrix", h.Routes.Matrix)

	router.HandlerFunc(http.MethodPost, "/v1/graphs", h.Graphs.Create)
	router.HandlerFunc(http.MethodGet, "/v1/graphs", h.Graphs.List)
	router.HandlerFunc(http.MethodGet, "/v1/graphs/:name/:network", h.Graphs.Get)
	router.HandlerFunc(http.MethodGet, "/v1/graphs/:name/:network/geojson", h.Graphs.GeoJSONExport)

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return requestIDMiddleware(loggingMiddleware(sentryMiddleware(router)))
}
