// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     handler
// Description: WebSocket endpoint for interactive runs with input prompts
// Author:      Mike Stoffels
// Created:     2026-09-24
// License:     MIT
// ============================================================================

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/pkg/core/logging"
)

const wsReadTimeout = 120 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "run", "input", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSRunPayload starts a new run
type WSRunPayload struct {
	Code    string            `json:"code"`
	Inputs  map[string]string `json:"inputs,omitempty"`
	Example string            `json:"example,omitempty"`
}

// WSInputPayload answers an input_required message
type WSInputPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`    // "output", "input_required", "done", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSOutputPayload carries output produced since the previous message
type WSOutputPayload struct {
	Session string `json:"session"`
	Text    string `json:"text"`
}

// WSInputRequiredPayload names the variable the program waits for
type WSInputRequiredPayload struct {
	Session string `json:"session"`
	Name    string `json:"name"`
}

// WSDonePayload ends a run
type WSDonePayload struct {
	Session    string  `json:"session"`
	RunID      string  `json:"run_id,omitempty"`
	Status     string  `json:"status"`
	Steps      int     `json:"steps"`
	DurationMS float64 `json:"duration_ms"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Session string `json:"session,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// wsSession is the interactive run of one connection. Programs are
// deterministic, so each re-run reproduces the output already sent.
type wsSession struct {
	id      string
	code    string
	example string
	inputs  map[string]string
	emitted string
	pending string
}

// WebSocketHandler handles WebSocket connections for interactive runs
type WebSocketHandler struct {
	api      *Handler
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler on top of the API handler
func NewWebSocketHandler(api *Handler) *WebSocketHandler {
	return &WebSocketHandler{
		api: api,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     api.allowOrigin,
		},
		logger: api.logger,
	}
}

// allowOrigin applies the CORS origin list to WebSocket upgrades
func (h *Handler) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || !h.cors.Enabled || len(h.cors.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cors.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err.Error())
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection serves one connection. Messages are processed in order,
// so writes never overlap.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadLimit(h.api.maxRequestSize)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	var session *wsSession

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket read error", "error", err.Error())
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.sendResponse(conn, WSResponse{Type: "pong", Payload: nil})

		case "run":
			var payload WSRunPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, "", "invalid_payload", "Invalid run payload")
				continue
			}
			if strings.TrimSpace(payload.Code) == "" {
				h.sendError(conn, "", "invalid_request", msgNoCode)
				continue
			}

			session = &wsSession{
				id:      uuid.NewString(),
				code:    payload.Code,
				example: payload.Example,
				inputs:  make(map[string]string, len(payload.Inputs)),
			}
			for k, v := range payload.Inputs {
				session.inputs[k] = v
			}
			if !h.execute(ctx, conn, session) {
				session = nil
			}

		case "input":
			var payload WSInputPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, "", "invalid_payload", "Invalid input payload")
				continue
			}
			if session == nil || session.pending == "" {
				h.sendError(conn, "", "no_pending_input", "No run is waiting for input")
				continue
			}
			if payload.Name != "" && payload.Name != session.pending {
				h.sendError(conn, session.id, "unexpected_input", "Expected input for "+session.pending)
				continue
			}

			session.inputs[session.pending] = payload.Value
			if !h.execute(ctx, conn, session) {
				session = nil
			}

		default:
			h.sendError(conn, "", "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

// execute re-runs the session program and streams what is new. It reports
// whether the session is still waiting for input.
func (h *WebSocketHandler) execute(ctx context.Context, conn *websocket.Conn, session *wsSession) bool {
	runCtx, cancel := context.WithTimeout(ctx, h.api.runTimeout)
	defer cancel()

	result := h.api.engine.Run(runCtx, session.code, session.inputs)
	runID := h.api.record(ctx, "ws", session.example, session.code, result)

	output := result.Output
	if strings.HasPrefix(output, session.emitted) {
		output = output[len(session.emitted):]
	}
	if output != "" {
		h.sendResponse(conn, WSResponse{
			Type:    "output",
			Payload: WSOutputPayload{Session: session.id, Text: output},
		})
	}
	session.emitted = result.Output

	switch result.Status {
	case interpreter.StatusNeedsInput:
		session.pending = result.PendingInput
		h.sendResponse(conn, WSResponse{
			Type:    "input_required",
			Payload: WSInputRequiredPayload{Session: session.id, Name: result.PendingInput},
		})
		return true

	case interpreter.StatusFailed:
		h.sendError(conn, session.id, string(result.Err.Code()), result.ErrorText())
		return false

	default:
		h.sendResponse(conn, WSResponse{
			Type: "done",
			Payload: WSDonePayload{
				Session:    session.id,
				RunID:      runID,
				Status:     result.Status.String(),
				Steps:      result.Steps,
				DurationMS: float64(result.Duration.Microseconds()) / 1000,
			},
		})
		return false
	}
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err.Error())
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, session, code, message string) {
	h.sendResponse(conn, WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Session: session,
			Code:    code,
			Message: message,
		},
	})
}
