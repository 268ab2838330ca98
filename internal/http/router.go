package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"paperchat/internal/docstore"
	"paperchat/internal/handlers"
	"paperchat/internal/index"
	"paperchat/internal/rag"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine   rag.Engine
	Indexer  *index.Indexer
	Store    *index.Store
	DocStore docstore.Store
}

// NewRouter creates the API router.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	askHandler := handlers.NewAskHandler(deps.Engine)
	askStreamHandler := handlers.NewAskStreamHandler(deps.Engine)
	indexHandler := handlers.NewIndexHandler(deps.Indexer, deps.DocStore)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/ask/stream", askStreamHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
