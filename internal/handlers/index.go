package handlers

import (
	"encoding/json"
	"net/http"

	"paperchat/internal/contextutil"
	"paperchat/internal/docstore"
	"paperchat/internal/index"
)

// IndexHandler triggers re-indexing of the whole paper collection or a
// single note.
type IndexHandler struct {
	indexer *index.Indexer
	docs    docstore.Store
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(indexer *index.Indexer, docs docstore.Store) *IndexHandler {
	return &IndexHandler{indexer: indexer, docs: docs}
}

// IndexRequest optionally names one document to re-index. An empty body (or
// empty path) re-indexes everything that is stale.
type IndexRequest struct {
	Path string `json:"path,omitempty"`
}

// IndexResponse reports the outcome of an indexing run.
type IndexResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req IndexRequest
	if r.Body != nil {
		// Body is optional; decode errors on an empty body are fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if req.Path != "" {
		if !h.docs.Exists(ctx, req.Path) {
			writeError(w, http.StatusNotFound, "Unknown paper path")
			return
		}
		doc := docstore.Document{Path: req.Path, Name: docstore.DisplayName(req.Path)}
		if err := h.indexer.IndexDocument(ctx, doc); err != nil {
			logger.ErrorContext(ctx, "failed to index document", "path", req.Path, "error", err)
			writeError(w, http.StatusBadGateway, "Indexing failed")
			return
		}
		writeJSON(w, IndexResponse{Status: "indexed", Path: req.Path})
		return
	}

	if err := h.indexer.IndexAll(ctx); err != nil {
		// Per-document failures are already logged; the batch still ran.
		logger.WarnContext(ctx, "indexing completed with errors", "error", err)
		writeJSON(w, IndexResponse{Status: "completed with errors"})
		return
	}
	writeJSON(w, IndexResponse{Status: "completed"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
