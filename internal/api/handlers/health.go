package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status       string `json:"status"`
	Environment  string `json:"environment"`
	CacheBackend string `json:"cache_backend"`
}

// HealthHandler reports liveness and the deployment settings worth seeing at a glance.
type HealthHandler struct {
	Env          string
	CacheBackend string
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:       "ok",
		Environment:  h.Env,
		CacheBackend: h.CacheBackend,
	})
}
