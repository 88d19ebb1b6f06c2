// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     handler
// Description: HTTP handlers of the playground API
// Author:      Mike Stoffels
// Created:     2026-09-24
// License:     MIT
// ============================================================================

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
	"github.com/msto63/vibescript/foundation/vibe/ast"
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/foundation/vibe/interpreter"
	"github.com/msto63/vibescript/internal/catalog"
	"github.com/msto63/vibescript/internal/store"
	"github.com/msto63/vibescript/pkg/core/cache"
	"github.com/msto63/vibescript/pkg/core/health"
	"github.com/msto63/vibescript/pkg/core/logging"
)

const (
	msgNoCode    = "No code to execute!"
	msgNoOutput  = "Code executed successfully (no output)"
	defaultLimit = 20
	maxLimit     = 500
)

// RunRequest is the body of POST /api/v1/run
type RunRequest struct {
	Code    string            `json:"code"`
	Inputs  map[string]string `json:"inputs,omitempty"`
	Example string            `json:"example,omitempty"`
}

// RunResponse is the outcome of a run
type RunResponse struct {
	ID           string  `json:"id,omitempty"`
	Output       string  `json:"output"`
	Error        *string `json:"error"`
	Status       string  `json:"status"`
	PendingInput string  `json:"pending_input,omitempty"`
	Steps        int     `json:"steps"`
	DurationMS   float64 `json:"duration_ms"`
}

// ParseRequest is the body of POST /api/v1/parse
type ParseRequest struct {
	Code string `json:"code"`
}

// ParseResponse carries the AST dump of a program
type ParseResponse struct {
	AST        string  `json:"ast"`
	Statements int     `json:"statements"`
	Nodes      int     `json:"nodes"`
	Error      *string `json:"error"`
}

// ExampleResponse mirrors the example endpoint of the original IDE
type ExampleResponse struct {
	Code     string            `json:"code"`
	Error    *string           `json:"error"`
	Title    string            `json:"title,omitempty"`
	Inputs   map[string]string `json:"inputs,omitempty"`
	Metadata *catalog.Metadata `json:"metadata,omitempty"`
}

// ExamplesResponse lists the catalog
type ExamplesResponse struct {
	Examples []catalog.Summary `json:"examples"`
	Total    int               `json:"total"`
}

// HistoryResponse lists recorded runs
type HistoryResponse struct {
	Runs  []*store.Run `json:"runs"`
	Total int          `json:"total"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Examples is the catalog surface the handlers need
type Examples interface {
	Get(name string) (*catalog.Example, error)
	List() []catalog.Summary
}

// CORSConfig controls the CORS headers
type CORSConfig struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
}

// Config wires the handler dependencies. Store and Examples are optional.
type Config struct {
	Version        string
	Engine         *engine.Engine
	Store          store.RunStore
	Examples       Examples
	Health         *health.Registry
	Logger         *logging.Logger
	RunTimeout     time.Duration
	MaxRequestSize int64
	CORS           CORSConfig
}

// Handler handles HTTP requests of the playground API
type Handler struct {
	engine    *engine.Engine
	store     store.RunStore
	examples  Examples
	health    *health.Registry
	logger    *logging.Logger
	cors      CORSConfig
	startTime time.Time
	version   string

	runTimeout     time.Duration
	maxRequestSize int64
}

// NewHandler creates a new API handler
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.New("playground-handler")
	}
	if cfg.Engine == nil {
		cfg.Engine = engine.New(engine.Options{Logger: cfg.Logger.Foundation()})
	}
	if cfg.Health == nil {
		cfg.Health = health.NewRegistry("playground", cfg.Version)
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Second
	}
	if cfg.MaxRequestSize <= 0 {
		cfg.MaxRequestSize = 1 << 20
	}
	return &Handler{
		engine:         cfg.Engine,
		store:          cfg.Store,
		examples:       cfg.Examples,
		health:         cfg.Health,
		logger:         cfg.Logger,
		cors:           cfg.CORS,
		startTime:      time.Now(),
		version:        cfg.Version,
		runTimeout:     cfg.RunTimeout,
		maxRequestSize: cfg.MaxRequestSize,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w, r)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Route requests; the original IDE paths (/run, /examples/x) are served as well
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.handleRoot(w, r)
	case path == "health":
		h.handleHealth(w, r)
	case path == "run":
		h.handleRun(w, r)
	case path == "parse":
		h.handleParse(w, r)
	case path == "examples":
		h.handleExamples(w, r)
	case strings.HasPrefix(path, "examples/"):
		h.handleExample(w, r, strings.TrimPrefix(path, "examples/"))
	case path == "history":
		h.handleHistory(w, r)
	case path == "history/stats":
		h.handleHistoryStats(w, r)
	case strings.HasPrefix(path, "history/"):
		h.handleHistoryEntry(w, r, strings.TrimPrefix(path, "history/"))
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", "")
	}
}

func (h *Handler) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if !h.cors.Enabled {
		return
	}

	origin := "*"
	if len(h.cors.AllowedOrigins) > 0 && h.cors.AllowedOrigins[0] != "*" {
		origin = ""
		requested := r.Header.Get("Origin")
		for _, allowed := range h.cors.AllowedOrigins {
			if allowed == requested {
				origin = requested
				break
			}
		}
		if origin == "" {
			return
		}
		w.Header().Set("Vary", "Origin")
	}

	methods := "GET, POST, OPTIONS"
	if len(h.cors.AllowedMethods) > 0 {
		methods = strings.Join(h.cors.AllowedMethods, ", ")
	}

	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// handleRoot handles the root endpoint
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "VibeScript Playground API",
		"version": h.version,
		"endpoints": map[string][]string{
			"core": {
				"GET  /api/v1/health",
			},
			"run": {
				"POST /api/v1/run",
				"POST /api/v1/parse",
				"GET  /api/v1/run/ws",
			},
			"examples": {
				"GET  /api/v1/examples",
				"GET  /api/v1/examples/{name}",
			},
			"history": {
				"GET  /api/v1/history",
				"GET  /api/v1/history/stats",
				"GET  /api/v1/history/{id}",
			},
		},
	}
	h.writeJSON(w, http.StatusOK, info)
}

// handleHealth reports the registered health checks
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
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

// handleRun executes a program
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	var req RunRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		h.writeJSON(w, http.StatusOK, RunResponse{
			Output: msgNoCode,
			Status: interpreter.StatusCompleted.String(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.runTimeout)
	defer cancel()

	result := h.engine.Run(ctx, req.Code, req.Inputs)
	resp := NewRunResponse(result)
	resp.ID = h.record(r.Context(), "http", req.Example, req.Code, result)

	h.writeJSON(w, http.StatusOK, resp)
}

// NewRunResponse formats a result the way the playground presents it
func NewRunResponse(result *engine.Result) RunResponse {
	resp := RunResponse{
		Output:       strings.TrimRight(result.Output, "\n"),
		Status:       result.Status.String(),
		PendingInput: result.PendingInput,
		Steps:        result.Steps,
		DurationMS:   float64(result.Duration.Microseconds()) / 1000,
	}

	switch result.Status {
	case interpreter.StatusFailed:
		text := result.ErrorText()
		resp.Error = &text
	case interpreter.StatusCompleted:
		if resp.Output == "" {
			resp.Output = msgNoOutput
		}
	}
	return resp
}

// record stores a run in the history and returns its ID ("" without store)
func (h *Handler) record(ctx context.Context, origin, example, code string, result *engine.Result) string {
	if h.store == nil {
		return ""
	}

	run := &store.Run{
		Origin:       origin,
		Example:      example,
		SourceHash:   cache.SourceHash(code),
		Code:         code,
		Status:       result.Status.String(),
		Output:       result.Output,
		PendingInput: result.PendingInput,
		Steps:        result.Steps,
		DurationMS:   float64(result.Duration.Microseconds()) / 1000,
	}
	if result.Err != nil {
		run.Error = result.ErrorText()
		run.ErrorCode = string(result.Err.Code())
	}

	if err := h.store.RecordRun(ctx, run); err != nil {
		h.logger.Warn("Failed to record run", "error", err.Error())
		return ""
	}
	return run.ID
}

// handleParse returns the AST dump of a program
func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	var req ParseRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	program, err := h.engine.Parse(req.Code)
	if err != nil {
		verr := vbserr.As(err)
		text := vbserr.Label(verr.Code()) + ": " + verr.Error()
		h.writeJSON(w, http.StatusUnprocessableEntity, ParseResponse{Error: &text})
		return
	}

	h.writeJSON(w, http.StatusOK, ParseResponse{
		AST:        ast.Dump(program),
		Statements: len(program.Statements),
		Nodes:      ast.Count(program),
	})
}

// handleExamples lists the catalog
func (h *Handler) handleExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	if h.examples == nil {
		h.writeJSON(w, http.StatusOK, ExamplesResponse{Examples: []catalog.Summary{}})
		return
	}

	list := h.examples.List()
	h.writeJSON(w, http.StatusOK, ExamplesResponse{Examples: list, Total: len(list)})
}

// handleExample returns the source of one example
func (h *Handler) handleExample(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}

	notFound := func() {
		msg := fmt.Sprintf("Example '%s' not found", name)
		h.writeJSON(w, http.StatusNotFound, ExampleResponse{Error: &msg})
	}

	if h.examples == nil {
		notFound()
		return
	}

	example, err := h.examples.Get(name)
	switch {
	case errors.Is(err, catalog.ErrExampleNotFound), errors.Is(err, catalog.ErrInvalidName):
		notFound()
		return
	case err != nil:
		msg := "Could not load example: " + err.Error()
		h.writeJSON(w, http.StatusInternalServerError, ExampleResponse{Error: &msg})
		return
	}

	meta := example.Metadata
	h.writeJSON(w, http.StatusOK, ExampleResponse{
		Code:     example.Code,
		Title:    example.Title,
		Inputs:   example.Inputs,
		Metadata: &meta,
	})
}

// handleHistory lists recent runs
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Run history is disabled", "")
		return
	}

	query := r.URL.Query()
	filter := store.RunFilter{
		Origin: query.Get("origin"),
		Status: query.Get("status"),
		Limit:  defaultLimit,
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer", v)
			return
		}
		filter.Limit = min(limit, maxLimit)
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer", v)
			return
		}
		filter.Offset = offset
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "store_error", "Failed to list runs", err.Error())
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	h.writeJSON(w, http.StatusOK, HistoryResponse{Runs: runs, Total: len(runs)})
}

// handleHistoryStats summarizes the run history
func (h *Handler) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Run history is disabled", "")
		return
	}
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "store_error", "Failed to compute stats", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// handleHistoryEntry returns one recorded run
func (h *Handler) handleHistoryEntry(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Run history is disabled", "")
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "not_found", "Run not found", id)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "store_error", "Failed to load run", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

// Helper methods

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxRequestSize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	h.writeJSON(w, status, resp)
}
