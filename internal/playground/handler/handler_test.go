package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/internal/catalog"
	"github.com/msto63/vibescript/internal/store"
	"github.com/msto63/vibescript/pkg/core/logging"
)

type fixture struct {
	handler *Handler
	store   *store.SQLiteStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logging.Wrap(vbslog.Discard(), "handler-test")

	s, err := store.New(store.Config{Path: filepath.Join(t.TempDir(), "runs.db")})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello_world.vs"), []byte("spill_the_tea \"Hello, World!\";\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cat := catalog.New(dir, logger)
	if err := cat.LoadAll(); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(Config{
		Version:  "test",
		Engine:   engine.New(engine.Options{Logger: vbslog.Discard()}),
		Store:    s,
		Examples: cat,
		Logger:   logger,
		CORS:     CORSConfig{Enabled: true},
	})
	return &fixture{handler: h, store: s}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		req         RunRequest
		wantOutput  string
		wantStatus  string
		wantError   string
		wantPending string
	}{
		{
			name:       "sum",
			req:        RunRequest{Code: "lit x = 5;\nspill_the_tea x + 3;"},
			wantOutput: "8",
			wantStatus: "completed",
		},
		{
			name:       "blank code",
			req:        RunRequest{Code: "  \n"},
			wantOutput: "No code to execute!",
			wantStatus: "completed",
		},
		{
			name:       "no output",
			req:        RunRequest{Code: "lit x = 1;"},
			wantOutput: "Code executed successfully (no output)",
			wantStatus: "completed",
		},
		{
			name:       "runtime error keeps partial output",
			req:        RunRequest{Code: "spill_the_tea 1;\nspill_the_tea 10 / 0;"},
			wantOutput: "1",
			wantStatus: "failed",
			wantError:  "Runtime Error: division by zero",
		},
		{
			name:       "syntax error",
			req:        RunRequest{Code: "spill_the_tea 1"},
			wantStatus: "failed",
			wantError:  "Syntax Error: expected SEMICOLON, got EOF",
		},
		{
			name:        "needs input",
			req:         RunRequest{Code: "spill_the_tea \"name?\";\nvibe_check name;\nspill_the_tea name;"},
			wantOutput:  "name?",
			wantStatus:  "needs_input",
			wantPending: "name",
		},
		{
			name:       "input supplied",
			req:        RunRequest{Code: "vibe_check n;\nspill_the_tea n + 1;", Inputs: map[string]string{"n": "41"}},
			wantOutput: "42",
			wantStatus: "completed",
		},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/v1/run", tt.req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			resp := decode[RunResponse](t, rec)

			if resp.Output != tt.wantOutput {
				t.Errorf("output = %q, want %q", resp.Output, tt.wantOutput)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if tt.wantError == "" && resp.Error != nil {
				t.Errorf("unexpected error %q", *resp.Error)
			}
			if tt.wantError != "" && (resp.Error == nil || !strings.HasPrefix(*resp.Error, tt.wantError)) {
				t.Errorf("error = %v, want prefix %q", resp.Error, tt.wantError)
			}
			if resp.PendingInput != tt.wantPending {
				t.Errorf("pending = %q, want %q", resp.PendingInput, tt.wantPending)
			}
		})
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/run", RunRequest{Code: "spill_the_tea 7;", Example: "seven"})
	resp := decode[RunResponse](t, rec)
	if resp.ID == "" {
		t.Fatal("run was not recorded")
	}

	rec = f.do(t, http.MethodGet, "/api/v1/history/"+resp.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	run := decode[store.Run](t, rec)
	if run.Output != "7\n" || run.Origin != "http" || run.Example != "seven" {
		t.Errorf("run = %+v", run)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/history?limit=5", nil)
	history := decode[HistoryResponse](t, rec)
	if history.Total != 1 {
		t.Errorf("history total = %d", history.Total)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/history/stats", nil)
	stats := decode[store.Stats](t, rec)
	if stats.TotalRuns != 1 {
		t.Errorf("stats total = %d", stats.TotalRuns)
	}

	if rec := f.do(t, http.MethodGet, "/api/v1/history/unknown", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown run status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/history?limit=abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestExamples(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/examples", nil)
	list := decode[ExamplesResponse](t, rec)
	if list.Total != 1 || list.Examples[0].Name != "hello_world" {
		t.Errorf("examples = %+v", list)
	}

	rec = f.do(t, http.MethodGet, "/examples/hello_world", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	example := decode[ExampleResponse](t, rec)
	if example.Error != nil || !strings.Contains(example.Code, "Hello, World!") {
		t.Errorf("example = %+v", example)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/examples/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	missing := decode[ExampleResponse](t, rec)
	if missing.Error == nil || *missing.Error != "Example 'nope' not found" {
		t.Errorf("error = %v", missing.Error)
	}
}

func TestParse(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/parse", ParseRequest{Code: "lit x = 1;\nspill_the_tea x;"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[ParseResponse](t, rec)
	if resp.Statements != 2 || resp.AST == "" || resp.Nodes < 3 {
		t.Errorf("parse = %+v", resp)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/parse", ParseRequest{Code: "lit = ;"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
	bad := decode[ParseResponse](t, rec)
	if bad.Error == nil || !strings.HasPrefix(*bad.Error, "Syntax Error") {
		t.Errorf("error = %v", bad.Error)
	}
}

func TestRouting(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/v1", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodOptions, "/api/v1/run", http.StatusOK},
		{http.MethodGet, "/api/v1/run", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/examples", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nothing", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := f.do(t, tt.method, tt.path, nil)
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}

	rec := f.do(t, http.MethodOptions, "/api/v1/run", nil)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestRun_InvalidBody(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/run", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestWebSocket_InputRoundTrip(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(NewWebSocketHandler(f.handler))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	send := func(msgType string, payload interface{}) {
		t.Helper()
		raw, _ := json.Marshal(payload)
		if err := conn.WriteJSON(WSMessage{Type: msgType, Payload: raw}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	type reply struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	read := func() reply {
		t.Helper()
		var r reply
		if err := conn.ReadJSON(&r); err != nil {
			t.Fatalf("read: %v", err)
		}
		return r
	}

	send("ping", nil)
	if r := read(); r.Type != "pong" {
		t.Fatalf("expected pong, got %s", r.Type)
	}

	send("run", WSRunPayload{Code: "spill_the_tea \"name?\";\nvibe_check name;\nspill_the_tea \"hi \" + name;"})

	r := read()
	var out WSOutputPayload
	json.Unmarshal(r.Payload, &out)
	if r.Type != "output" || out.Text != "name?\n" {
		t.Fatalf("first reply = %s %s", r.Type, r.Payload)
	}

	r = read()
	var need WSInputRequiredPayload
	json.Unmarshal(r.Payload, &need)
	if r.Type != "input_required" || need.Name != "name" {
		t.Fatalf("second reply = %s %s", r.Type, r.Payload)
	}

	send("input", WSInputPayload{Name: "name", Value: "Ada"})

	r = read()
	json.Unmarshal(r.Payload, &out)
	if r.Type != "output" || out.Text != "hi Ada\n" {
		t.Fatalf("output after input = %s %s", r.Type, r.Payload)
	}

	r = read()
	var done WSDonePayload
	json.Unmarshal(r.Payload, &done)
	if r.Type != "done" || done.Status != "completed" || done.Session != need.Session {
		t.Fatalf("done = %s %s", r.Type, r.Payload)
	}

	runs, err := f.store.ListRuns(context.Background(), store.RunFilter{Origin: "ws"})
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("recorded ws runs = %d, want 2", len(runs))
	}

	send("input", WSInputPayload{Name: "name", Value: "again"})
	if r := read(); r.Type != "error" {
		t.Errorf("input without pending run = %s", r.Type)
	}
}

func TestWebSocket_RunError(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(NewWebSocketHandler(f.handler))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	raw, _ := json.Marshal(WSRunPayload{Code: "spill_the_tea 1 / 0;"})
	if err := conn.WriteJSON(WSMessage{Type: "run", Payload: raw}); err != nil {
		t.Fatal(err)
	}

	var resp struct {
		Type    string         `json:"type"`
		Payload WSErrorPayload `json:"payload"`
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "error" || resp.Payload.Code != "VIBE_RUNTIME" || !strings.HasPrefix(resp.Payload.Message, "Runtime Error") {
		t.Errorf("reply = %+v", resp)
	}
}
