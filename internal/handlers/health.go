package handlers

import (
	"net/http"
	"time"

	"paperchat/internal/index"
)

// HealthHandler reports service liveness and basic index stats.
type HealthHandler struct {
	store *index.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *index.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	IndexedChunks int    `json:"indexed_chunks"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		IndexedChunks: h.store.Len(),
	})
}
