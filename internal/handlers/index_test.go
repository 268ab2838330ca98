package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"paperchat/internal/docstore"
	"paperchat/internal/docstore/mocks"
	"paperchat/internal/index"
	embedmocks "paperchat/internal/index/mocks"
)

func TestIndexHandler_SingleDocument(t *testing.T) {
	ctrl := gomock.NewController(t)

	docs := mocks.NewMockStore(ctrl)
	docs.EXPECT().Exists(gomock.Any(), "papers/a.md").Return(true)
	docs.EXPECT().Read(gomock.Any(), "papers/a.md").Return("Note body text.", nil)
	docs.EXPECT().ModifiedTime(gomock.Any(), "papers/a.md").Return(time.UnixMilli(1000), nil)

	embedder := embedmocks.NewMockEmbedder(ctrl)
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1}
			}
			return out, nil
		}).AnyTimes()

	store := index.Open(filepath.Join(t.TempDir(), "index.json"), "test-model")
	indexer := index.NewIndexer(docs, store, embedder, 2000, 250)

	rec := postJSON(t, NewIndexHandler(indexer, docs), `{"path":"papers/a.md"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp IndexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "indexed" || resp.Path != "papers/a.md" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(store.ChunksForPath("papers/a.md")) == 0 {
		t.Error("document was not indexed")
	}
}

func TestIndexHandler_UnknownPath(t *testing.T) {
	ctrl := gomock.NewController(t)

	docs := mocks.NewMockStore(ctrl)
	docs.EXPECT().Exists(gomock.Any(), "missing.md").Return(false)

	store := index.Open(filepath.Join(t.TempDir(), "index.json"), "test-model")
	indexer := index.NewIndexer(docs, store, nil, 2000, 250)

	rec := postJSON(t, NewIndexHandler(indexer, docs), `{"path":"missing.md"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestIndexHandler_FullRun(t *testing.T) {
	ctrl := gomock.NewController(t)

	docs := mocks.NewMockStore(ctrl)
	docs.EXPECT().List(gomock.Any(), "").Return([]docstore.Document{}, nil)

	store := index.Open(filepath.Join(t.TempDir(), "index.json"), "test-model")
	indexer := index.NewIndexer(docs, store, nil, 2000, 250)

	rec := postJSON(t, NewIndexHandler(indexer, docs), ``)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp IndexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "completed" {
		t.Errorf("status = %q, want completed", resp.Status)
	}
}

func TestHealthHandler(t *testing.T) {
	store := index.Open(filepath.Join(t.TempDir(), "index.json"), "test-model")
	store.ReplaceForPath("a.md", []index.Chunk{{ID: "a.md#0#deadbeef", DocumentPath: "a.md"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	NewHealthHandler(store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.IndexedChunks != 1 {
		t.Errorf("indexed_chunks = %d, want 1", resp.IndexedChunks)
	}
	if resp.Timestamp == "" {
		t.Error("timestamp missing")
	}
}
