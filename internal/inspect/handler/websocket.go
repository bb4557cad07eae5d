package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	mdwerror "github.com/abyanmajid/trump/foundation/core/error"
	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
	"github.com/abyanmajid/trump/pkg/core/logging"
	"github.com/gorilla/websocket"
)

// Message types
const (
	TypeParse  = "parse"
	TypeTokens = "tokens"
	TypePing   = "ping"
	TypeResult = "result"
	TypePong   = "pong"
	TypeError  = "error"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage represents a WebSocket request
type WSMessage struct {
	Type    string          `json:"type"`    // "parse", "tokens", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`    // "result", "tokens", "pong", "error"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler serves parse and tokenize requests over one connection.
// Requests are answered in the order they arrive.
type WebSocketHandler struct {
	api    *Handler
	logger *logging.Logger
}

func newWebSocketHandler(api *Handler, logger *mdwlog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		api:    api,
		logger: logging.Wrap("inspect-websocket", logger),
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection reads requests until the peer goes away
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadLimit(h.api.maxBody)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		if !h.sendResponse(conn, h.dispatch(ctx, msg)) {
			return
		}
	}
}

// dispatch answers a single request
func (h *WebSocketHandler) dispatch(ctx context.Context, msg WSMessage) WSResponse {
	switch msg.Type {
	case TypePing:
		return WSResponse{Type: TypePong, Payload: nil}

	case TypeParse:
		var req ParseRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return errorResponse("invalid_payload", "Invalid parse payload")
		}
		resp, err := h.api.parse(ctx, req)
		if err != nil {
			return structuredErrorResponse(err)
		}
		return WSResponse{Type: TypeResult, Payload: resp}

	case TypeTokens:
		var req TokensRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return errorResponse("invalid_payload", "Invalid tokens payload")
		}
		resp, err := h.api.tokenize(req.Source)
		if err != nil {
			return structuredErrorResponse(err)
		}
		return WSResponse{Type: TypeTokens, Payload: resp}

	default:
		return errorResponse("unknown_type", "Unknown message type: "+msg.Type)
	}
}

// sendResponse writes one response and reports whether the connection is
// still usable
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) bool {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err)
		return false
	}
	return true
}

func errorResponse(code, message string) WSResponse {
	return WSResponse{
		Type: TypeError,
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}

func structuredErrorResponse(err error) WSResponse {
	var e *mdwerror.Error
	if errors.As(err, &e) {
		return errorResponse(string(e.Code()), e.Message())
	}
	return errorResponse(string(mdwerror.CodeInternal), err.Error())
}
