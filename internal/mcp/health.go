package mcp

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is the JSON body of the /health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	CacheWarm bool   `json:"cache_warm"`
	Documents int    `json:"documents"`
	Timestamp string `json:"timestamp"`
}

// CacheStatus is the readiness surface the health endpoint needs.
// The metadata cache implements it.
type CacheStatus interface {
	CacheWarm() bool
	DocumentCount() int
}

// NewHealthHandler creates an HTTP handler for the /health endpoint. The
// server is healthy as soon as it can answer; cache warmth is reported but
// a cold cache is not a failure, since queries populate it lazily.
func NewHealthHandler(status CacheStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "healthy",
			CacheWarm: status.CacheWarm(),
			Documents: status.DocumentCount(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}
