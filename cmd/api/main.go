package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"paperchat/internal/config"
	"paperchat/internal/docstore"
	"paperchat/internal/http"
	"paperchat/internal/index"
	"paperchat/internal/llm"
	"paperchat/internal/rag"
	"paperchat/internal/retriever"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	docs, err := docstore.NewFS(cfg.PapersPath)
	if err != nil {
		log.Fatalf("Failed to open papers directory: %v", err)
	}
	slog.Info("Document store ready", "path", cfg.PapersPath)

	store := index.Open(cfg.IndexPath, cfg.EmbeddingModelName)
	slog.Info("Index loaded", "path", cfg.IndexPath, "chunks", store.Len())

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	indexer := index.NewIndexer(docs, store, embedder, cfg.ChunkSize, cfg.ChunkOverlap)
	ret := retriever.New(store, indexer, docs, embedder, cfg.TopK)
	engine := rag.NewEngine(ret, llmClient)
	slog.Info("RAG engine initialized", "top_k", cfg.TopK)

	router := http.NewRouter(&http.Deps{
		Engine:   engine,
		Indexer:  indexer,
		Store:    store,
		DocStore: docs,
	})

	// Bring the index up to date in the background once the server is up.
	go func() {
		slog.Info("Starting background indexing")
		if err := indexer.IndexAll(context.Background()); err != nil {
			slog.Error("Indexing completed with errors", "error", err)
		}
	}()

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
