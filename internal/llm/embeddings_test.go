package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedTexts(t *testing.T) {
	var gotReq EmbeddingsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s, want /v1/embeddings", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		resp := EmbeddingsResponse{Data: []EmbeddingData{
			{Embedding: []float64{0.1, 0.2, 0.3}},
			{Embedding: []float64{0.4, 0.5, 0.6}},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model")
	got, err := client.EmbedTexts(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedTexts failed: %v", err)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q, want test-model", gotReq.Model)
	}
	if len(gotReq.Input) != 2 || gotReq.Input[0] != "first" {
		t.Errorf("request input = %v", gotReq.Input)
	}
	if len(got) != 2 {
		t.Fatalf("got %d vectors, want 2", len(got))
	}
	if got[0][0] != 0.1 || got[1][2] != 0.6 {
		t.Errorf("vectors not decoded correctly: %v", got)
	}
}

func TestEmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://unused", "k", "m")
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestEmbedTexts_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := EmbeddingsResponse{Data: []EmbeddingData{{Embedding: []float64{0.1}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m")
	if _, err := client.EmbedTexts(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when embedding count does not match input count")
	}
}

func TestEmbedTexts_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "m")
	if _, err := client.EmbedTexts(context.Background(), []string{"a"}); err == nil {
		t.Error("expected error on non-200 status")
	}
}
