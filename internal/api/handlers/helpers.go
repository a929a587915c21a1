package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"geo-route-service/internal/api/dto"
	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/platform/report"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("req_id=%s encode failed: method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// WriteError is exported for router-level handlers (not found, method not allowed).
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeError(w, r, status, msg)
}

// writeFault maps a local fault to its status code. Unknown errors are logged and hidden.
func writeFault(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrGraphNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrUnknownDistanceKind),
		errors.Is(err, domain.ErrEmptyInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		reqID := obs.RequestID(r.Context())
		log.Printf("req_id=%s %s failed: %v", reqID, op, err)
		report.Error(err, map[string]string{"op": op, "req_id": reqID})
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func outcome[T any](res domain.Result[T]) dto.Outcome {
	if res.OK() {
		return dto.Outcome{OK: true}
	}
	return dto.Outcome{Error: res.Err.Error()}
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("body must contain only one JSON object")
	}
	return nil
}

// queryPoint parses a required "lat,lon" query parameter.
func queryPoint(r *http.Request, name string) (domain.GeoPoint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return domain.GeoPoint{}, fmt.Errorf("%s is required", name)
	}
	p, err := domain.ParseGeoPoint(raw)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// queryPair parses two required point parameters.
func queryPair(r *http.Request, a, b string) (domain.GeoPoint, domain.GeoPoint, error) {
	pa, err := queryPoint(r, a)
	if err != nil {
		return pa, domain.GeoPoint{}, err
	}
	pb, err := queryPoint(r, b)
	return pa, pb, err
}

func queryDefault(r *http.Request, name, fallback string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return fallback
}

func toDTO(p domain.GeoPoint) dto.Point { return dto.Point{Lat: p.Lat, Lon: p.Lon} }

func fromDTO(p dto.Point) domain.GeoPoint { return domain.GeoPoint{Lat: p.Lat, Lon: p.Lon} }
