package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/foundation/lang"
	"github.com/abyanmajid/trump/foundation/lang/ast"
	"github.com/abyanmajid/trump/foundation/lang/parser"
	"github.com/abyanmajid/trump/internal/history"
	"github.com/abyanmajid/trump/pkg/core/health"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on HTTP requests and responses
const RequestIDHeader = "X-Request-ID"

// ParseRequest is the body of POST /v1/parse
type ParseRequest struct {
	Source string `json:"source"`
	Stats  bool   `json:"stats,omitempty"`
	Save   bool   `json:"save,omitempty"`
}

// ParseResponse is the outcome of a parse
type ParseResponse struct {
	Program     ast.Document        `json:"program"`
	Errors      []string            `json:"errors"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
	Tokens      int                 `json:"tokens"`
	DurationMS  float64             `json:"duration_ms"`
	Stats       *ast.Stats          `json:"stats,omitempty"`
	HistoryID   string              `json:"history_id,omitempty"`
}

// TokensRequest is the body of POST /v1/tokens
type TokensRequest struct {
	Source string `json:"source"`
}

// TokensResponse lists the tokens of a source text
type TokensResponse struct {
	Tokens []parser.Token `json:"tokens"`
	Count  int            `json:"count"`
}

// HistoryResponse lists recorded parses
type HistoryResponse struct {
	Entries []*history.Entry `json:"entries"`
	Total   int              `json:"total"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Config wires the handler to its collaborators. History and Health are
// optional.
type Config struct {
	Engine  *lang.Engine
	Health  *health.Registry
	History *history.Store
	Logger  *mdwlog.Logger
	Version string
}

// Handler handles HTTP requests for the inspection API
type Handler struct {
	engine    *lang.Engine
	health    *health.Registry
	history   *history.Store
	logger    *logging.Logger
	ws        *WebSocketHandler
	startTime time.Time
	version   string
	maxBody   int64
}

// NewHandler creates a new API handler
func NewHandler(cfg Config) *Handler {
	engine := cfg.Engine
	if engine == nil {
		engine = lang.NewEngine(lang.Options{Logger: cfg.Logger})
	}

	h := &Handler{
		engine:    engine,
		health:    cfg.Health,
		history:   cfg.History,
		logger:    logging.Wrap("inspect-http", cfg.Logger),
		startTime: time.Now(),
		version:   cfg.Version,
		// room for the JSON envelope around the largest accepted source
		maxBody: int64(engine.Options().MaxSourceLength)*2 + 4096,
	}
	h.ws = newWebSocketHandler(h, cfg.Logger)
	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	w.Header().Set(RequestIDHeader, requestID)

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	defer func() {
		h.logger.Debug("HTTP request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", float64(time.Since(start).Microseconds())/1000,
		)
	}()

	path := strings.Trim(r.URL.Path, "/")

	switch {
	case path == "":
		h.handleRoot(w, r)
	case path == "health":
		h.handleHealth(w, r)
	case path == "v1/parse":
		h.handleParse(w, r)
	case path == "v1/tokens":
		h.handleTokens(w, r)
	case path == "v1/ws":
		h.ws.ServeHTTP(w, r)
	case path == "v1/history":
		h.handleHistory(w, r)
	case strings.HasPrefix(path, "v1/history/"):
		h.handleHistoryEntry(w, r, strings.TrimPrefix(path, "v1/history/"))
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", "")
	}
}

// handleRoot describes the API
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "trump",
		"version": h.version,
		"endpoints": []string{
			"GET /health",
			"POST /v1/parse",
			"POST /v1/tokens",
			"GET /v1/ws",
			"GET /v1/history",
			"GET|DELETE /v1/history/{id}",
		},
	})
}

// handleHealth reports the health registry
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}

	if h.health == nil {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  health.StatusHealthy,
			"version": h.version,
			"uptime":  time.Since(h.startTime).String(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	report := h.health.Check(ctx)

	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

// handleParse parses a source text
func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	var req ParseRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body", err.Error())
		return
	}

	resp, err := h.parse(r.Context(), req)
	if err != nil {
		h.writeStructuredError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleTokens tokenizes a source text
func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	var req TokensRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body", err.Error())
		return
	}

	resp, err := h.tokenize(req.Source)
	if err != nil {
		h.writeStructuredError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// handleHistory lists recorded parses
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	if h.history == nil {
		h.writeError(w, http.StatusServiceUnavailable, "history_disabled", "History is disabled", "")
		return
	}

	query := r.URL.Query()
	filter := history.Filter{
		Limit:      atoiOr(query.Get("limit"), 50),
		Offset:     atoiOr(query.Get("offset"), 0),
		OnlyFailed: query.Get("failed") == "true",
	}

	entries, err := h.history.List(r.Context(), filter)
	if err != nil {
		h.writeStructuredError(w, err)
		return
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	h.writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Total: len(entries)})
}

// handleHistoryEntry reads or deletes one recorded parse
func (h *Handler) handleHistoryEntry(w http.ResponseWriter, r *http.Request, id string) {
	if h.history == nil {
		h.writeError(w, http.StatusServiceUnavailable, "history_disabled", "History is disabled", "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := h.history.Get(r.Context(), id)
		if err != nil {
			h.writeStructuredError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		if err := h.history.Delete(r.Context(), id); err != nil {
			h.writeStructuredError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or DELETE", "")
	}
}

// parse runs one parse and optionally records it
func (h *Handler) parse(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	result, err := h.engine.Parse(req.Source)
	if err != nil {
		return nil, err
	}

	resp := &ParseResponse{
		Program:     result.Document(),
		Errors:      result.Errors(),
		Diagnostics: result.Diagnostics,
		Tokens:      result.Tokens,
		DurationMS:  float64(result.Duration.Microseconds()) / 1000,
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []parser.Diagnostic{}
	}
	if req.Stats {
		stats := result.Stats()
		resp.Stats = &stats
	}

	if req.Save && h.history != nil {
		entry, err := history.NewEntry(result)
		if err != nil {
			return nil, err
		}
		if err := h.history.Record(ctx, entry); err != nil {
			// the parse itself succeeded
			h.logger.Warn("failed to record parse", "error", err)
		} else {
			resp.HistoryID = entry.ID
		}
	}
	return resp, nil
}

func (h *Handler) tokenize(source string) (*TokensResponse, error) {
	tokens, err := h.engine.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return &TokensResponse{Tokens: tokens, Count: len(tokens)}, nil
}

// Helper methods

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// writeStructuredError maps a structured error onto its HTTP status
func (h *Handler) writeStructuredError(w http.ResponseWriter, err error) {
	var e *mdwerror.Error
	if !errors.As(err, &e) {
		h.writeError(w, http.StatusInternalServerError, string(mdwerror.CodeInternal), err.Error(), "")
		return
	}
	status := e.Code().HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.writeError(w, status, string(e.Code()), e.Message(), "")
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}
