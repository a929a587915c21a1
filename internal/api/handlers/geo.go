package handlers

import (
	"net/http"

	"geo-route-service/internal/api/dto"
	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"
)

// Bearing, Distance and Center are pure geodesy and need no dependencies.

func Bearing(w http.ResponseWriter, r *http.Request) {
	origin, destination, err := queryPair(r, "origin", "destination")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := geodesy.Bearing(origin, destination)
	writeJSON(w, r, http.StatusOK, dto.BearingResponse{Outcome: outcome(res), Bearing: res.Value})
}

func Distance(w http.ResponseWriter, r *http.Request) {
	origin, destination, err := queryPair(r, "origin", "destination")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	kind, err := domain.ParseDistanceKind(queryDefault(r, "kind", string(domain.DistanceGreatCircle)))
	if err != nil {
		writeFault(w, r, "distance", err)
		return
	}

	res, err := geodesy.Distance(origin, destination, kind)
	if err != nil {
		writeFault(w, r, "distance", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DistanceResponse{
		Outcome:        outcome(res),
		Kind:           string(kind),
		DistanceMeters: res.Value,
	})
}

func Center(w http.ResponseWriter, r *http.Request) {
	a, b, err := queryPair(r, "a", "b")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, dto.CenterResponse{Center: toDTO(geodesy.Center(a, b))})
}
