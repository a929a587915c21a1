package handlers

import (
	"net/http"
	"strings"

	"geo-route-service/internal/api/dto"
	"geo-route-service/internal/services"
)

type GeocodeHandler struct {
	Resolver *services.Resolver
}

// Geocode resolves ?q= to a point. With extent=true it also asks the geocoder for the place
// extent, which the persistent cache does not store.
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, http.StatusBadRequest, "q is required")
		return
	}

	point := h.Resolver.Geocode(r.Context(), q)
	res := dto.GeocodeResponse{Outcome: outcome(point), Query: q}
	if point.OK() {
		p := toDTO(point.Value)
		res.Point = &p

		if r.URL.Query().Get("extent") == "true" {
			if full := h.Resolver.Lookup(r.Context(), q); full.OK() && full.Value.BoundingBox != nil {
				b := full.Value.BoundingBox
				res.BoundingBox = &dto.BoundingBox{North: b.North, South: b.South, East: b.East, West: b.West}
			}
		}
	}
	writeJSON(w, r, http.StatusOK, res)
}
