package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paperchat/internal/rag"
)

// stubEngine scripts the engine for handler tests.
type stubEngine struct {
	resp      rag.AskResponse
	err       error
	fragments []string
	gotReq    rag.AskRequest
}

func (s *stubEngine) Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error) {
	s.gotReq = req
	return s.resp, s.err
}

func (s *stubEngine) AskStream(ctx context.Context, req rag.AskRequest, callback func(string) error) ([]rag.Reference, error) {
	s.gotReq = req
	for _, f := range s.fragments {
		if err := callback(f); err != nil {
			return nil, err
		}
	}
	return s.resp.References, s.err
}

func postJSON(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAskHandler(t *testing.T) {
	engine := &stubEngine{resp: rag.AskResponse{
		Answer:     "the answer",
		References: []rag.Reference{{Path: "a.md", Name: "a", Kind: "body"}},
	}}
	handler := NewAskHandler(engine)

	rec := postJSON(t, handler, `{"question":"what?","papers":["a.md"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp rag.AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Answer != "the answer" || len(resp.References) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if engine.gotReq.Question != "what?" || len(engine.gotReq.Papers) != 1 {
		t.Errorf("engine received wrong request: %+v", engine.gotReq)
	}
}

func TestAskHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{question`},
		{name: "missing question", body: `{"papers":["a.md"]}`},
		{name: "empty papers", body: `{"question":"what?","papers":[]}`},
		{name: "missing papers", body: `{"question":"what?"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, NewAskHandler(&stubEngine{}), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var errResp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil || errResp.Error == "" {
				t.Errorf("expected an error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestAskHandler_EngineError(t *testing.T) {
	engine := &stubEngine{err: errors.New("retrieval exploded")}

	rec := postJSON(t, NewAskHandler(engine), `{"question":"what?","papers":["a.md"]}`)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestAskStreamHandler(t *testing.T) {
	engine := &stubEngine{fragments: []string{"partial ", "answer"}}

	rec := postJSON(t, NewAskStreamHandler(engine), `{"question":"what?","papers":["a.md"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`data: {"fragment":"partial "}`,
		`data: {"fragment":"answer"}`,
		"data: [DONE]",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("stream body missing %q:\n%s", want, body)
		}
	}
	if !strings.HasSuffix(strings.TrimRight(body, "\n"), "data: [DONE]") {
		t.Errorf("stream should end with the done marker:\n%s", body)
	}
}

func TestAskStreamHandler_Validation(t *testing.T) {
	rec := postJSON(t, NewAskStreamHandler(&stubEngine{}), `{"papers":["a.md"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
