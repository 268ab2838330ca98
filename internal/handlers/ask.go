package handlers

import (
	"encoding/json"
	"net/http"

	"paperchat/internal/contextutil"
	"paperchat/internal/rag"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AskHandler handles RAG query requests.
type AskHandler struct {
	engine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	req, ok := decodeAskRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.engine.Ask(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "RAG query failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to process query")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// AskStreamHandler handles RAG queries with a streamed answer. Fragments are
// sent as Server-Sent Events terminated by a [DONE] marker.
type AskStreamHandler struct {
	engine rag.Engine
}

// NewAskStreamHandler creates a new AskStreamHandler.
func NewAskStreamHandler(engine rag.Engine) *AskStreamHandler {
	return &AskStreamHandler{engine: engine}
}

func (h *AskStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	req, ok := decodeAskRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func(fragment string) error {
		payload, err := json.Marshal(struct {
			Fragment string `json:"fragment"`
		}{Fragment: fragment})
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if _, err := h.engine.AskStream(ctx, req, send); err != nil {
		// Headers are already sent; log and terminate the stream.
		logger.ErrorContext(ctx, "streaming RAG query failed", "error", err)
	}

	_, _ = w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}

func decodeAskRequest(w http.ResponseWriter, r *http.Request) (rag.AskRequest, bool) {
	logger := contextutil.LoggerFromContext(r.Context())

	var req rag.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return rag.AskRequest{}, false
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return rag.AskRequest{}, false
	}
	if len(req.Papers) == 0 {
		writeError(w, http.StatusBadRequest, "At least one paper path is required")
		return rag.AskRequest{}, false
	}
	return req, true
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
