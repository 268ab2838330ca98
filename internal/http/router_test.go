package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"paperchat/internal/docstore/mocks"
	"paperchat/internal/index"
	"paperchat/internal/rag"
)

type fixedEngine struct {
	resp rag.AskResponse
}

func (f *fixedEngine) Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error) {
	return f.resp, nil
}

func (f *fixedEngine) AskStream(ctx context.Context, req rag.AskRequest, callback func(string) error) ([]rag.Reference, error) {
	if err := callback(f.resp.Answer); err != nil {
		return nil, err
	}
	return f.resp.References, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)

	docs := mocks.NewMockStore(ctrl)
	docs.EXPECT().ModifiedTime(gomock.Any(), gomock.Any()).Return(time.UnixMilli(0), nil).AnyTimes()

	store := index.Open(filepath.Join(t.TempDir(), "index.json"), "test-model")
	indexer := index.NewIndexer(docs, store, nil, 2000, 250)

	return NewRouter(&Deps{
		Engine:   &fixedEngine{resp: rag.AskResponse{Answer: "ok", References: []rag.Reference{}}},
		Indexer:  indexer,
		Store:    store,
		DocStore: docs,
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/health", wantStatus: http.StatusOK},
		{name: "ask", method: http.MethodPost, path: "/api/v1/ask", body: `{"question":"q","papers":["a.md"]}`, wantStatus: http.StatusOK},
		{name: "ask stream", method: http.MethodPost, path: "/api/v1/ask/stream", body: `{"question":"q","papers":["a.md"]}`, wantStatus: http.StatusOK},
		{name: "health wrong method", method: http.MethodPost, path: "/api/v1/health", wantStatus: http.StatusMethodNotAllowed},
		{name: "ask wrong method", method: http.MethodGet, path: "/api/v1/ask", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_AskResponse(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"q","papers":["a.md"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp rag.AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Answer != "ok" {
		t.Errorf("answer = %q, want ok", resp.Answer)
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	id := rec.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if len(id) != 36 {
		t.Errorf("request id %q does not look like a UUID", id)
	}
}
