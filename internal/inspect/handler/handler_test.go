package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/pkg/core/health"
)

func newTestHandler(t *testing.T, withHistory bool) *Handler {
	t.Helper()
	logger := mdwlog.Discard()
	engine := lang.NewEngine(lang.Options{Logger: logger, MaxSourceLength: 64})

	registry := health.NewRegistry("trump", "test")
	registry.Register(health.ParserCheck("parser", engine))

	cfg := Config{Engine: engine, Health: registry, Logger: logger, Version: "test"}
	if withHistory {
		store, err := history.Open(history.Config{Path: filepath.Join(t.TempDir(), "history.db")})
		if err != nil {
			t.Fatalf("history.Open() error = %v", err)
		}
		t.Cleanup(func() { store.Close() })
		cfg.History = store
	}
	return NewHandler(cfg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleParse(t *testing.T) {
	h := newTestHandler(t, false)

	rec := do(t, h, http.MethodPost, "/v1/parse", `{"source": "1 + 2 * 3", "stats": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}

	var resp struct {
		Program map[string]interface{} `json:"program"`
		Errors  []string               `json:"errors"`
		Stats   *struct {
			Nodes int `json:"nodes"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Program["type"] != "Program" {
		t.Errorf("program.type = %v, want Program", resp.Program["type"])
	}
	if len(resp.Errors) != 0 {
		t.Errorf("errors = %v, want none", resp.Errors)
	}
	if resp.Stats == nil || resp.Stats.Nodes != 7 {
		t.Errorf("stats = %+v, want 7 nodes", resp.Stats)
	}
}

func TestHandleParse_Diagnostics(t *testing.T) {
	h := newTestHandler(t, false)

	rec := do(t, h, http.MethodPost, "/v1/parse", `{"source": "(1 + 2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := []string{"expected next token to be RIGHT_PAREN, got EOF instead"}
	if len(resp.Errors) != 1 || resp.Errors[0] != want[0] {
		t.Errorf("errors = %v, want %v", resp.Errors, want)
	}
	if len(resp.Diagnostics) != 1 || resp.Diagnostics[0].Token.Column != 6 {
		t.Errorf("diagnostics = %+v, want one at column 6", resp.Diagnostics)
	}
}

func TestHandleParse_Errors(t *testing.T) {
	h := newTestHandler(t, false)

	tests := []struct {
		name   string
		method string
		body   string
		status int
		code   string
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, "method_not_allowed"},
		{"invalid json", http.MethodPost, "{", http.StatusBadRequest, "invalid_request"},
		{"too long", http.MethodPost, `{"source": "` + strings.Repeat("1+", 40) + `1"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, "/v1/parse", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var resp ErrorResponse
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestHandleTokens(t *testing.T) {
	h := newTestHandler(t, false)

	rec := do(t, h, http.MethodPost, "/v1/tokens", `{"source": "12"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Tokens []struct {
			Type   string `json:"type"`
			Lexeme string `json:"lexeme"`
		} `json:"tokens"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Count != 2 || resp.Tokens[0].Type != "INTEGER" || resp.Tokens[1].Type != "EOF" {
		t.Errorf("tokens = %+v, want INTEGER then EOF", resp.Tokens)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t, false)

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var report health.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Status != health.StatusHealthy || len(report.Checks) != 1 {
		t.Errorf("report = %+v, want one healthy check", report)
	}
}

func TestHandleHistory(t *testing.T) {
	h := newTestHandler(t, true)

	rec := do(t, h, http.MethodPost, "/v1/parse", `{"source": "2 ^ 3", "save": true}`)
	var parsed ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.HistoryID == "" {
		t.Fatal("expected a history ID")
	}

	rec = do(t, h, http.MethodGet, "/v1/history", "")
	var list HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if list.Total != 1 || list.Entries[0].Source != "2 ^ 3" {
		t.Errorf("history = %+v, want the saved parse", list)
	}

	rec = do(t, h, http.MethodGet, "/v1/history/"+parsed.HistoryID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET entry status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = do(t, h, http.MethodDelete, "/v1/history/"+parsed.HistoryID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = do(t, h, http.MethodGet, "/v1/history/"+parsed.HistoryID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted entry status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleHistory_Disabled(t *testing.T) {
	h := newTestHandler(t, false)

	rec := do(t, h, http.MethodGet, "/v1/history", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestServeHTTP_Routing(t *testing.T) {
	h := newTestHandler(t, false)

	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec := do(t, h, http.MethodOptions, "/v1/parse", ""); rec.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want %d", rec.Code, http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/", &bytes.Buffer{})
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "fixed-id" {
		t.Errorf("request ID = %q, want fixed-id", got)
	}
}
