package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RedisMCP-Go/internal/store"
	"RedisMCP-Go/internal/tool"
)

func newTestServer() *Server {
	return NewServer(":0", tool.NewService(store.NewMemory()))
}

func TestHandleToolCall(t *testing.T) {
	srv := newTestServer()

	call := func(name, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/"+name, strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.handleToolCall(rec, req)
		return rec
	}

	t.Run("set then get", func(t *testing.T) {
		rec := call("set", `{"key":"greeting","value":"hello"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var result tool.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.IsError() || result.Message != "Successfully set key: greeting" {
			t.Fatalf("unexpected result: %+v", result)
		}

		rec = call("get", `{"key":"greeting"}`)
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Message != "hello" {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("tool error still returns 200", func(t *testing.T) {
		rec := call("get", `{"key":"absent"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var result tool.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !result.IsError() || result.Message != "Key not found: absent" {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		if rec := call("flush", `{}`); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("nested path rejected", func(t *testing.T) {
		if rec := call("set/extra", `{}`); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tools/set", nil)
		rec := httptest.NewRecorder()
		srv.handleToolCall(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleToolList(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rec := httptest.NewRecorder()
	srv.handleToolList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var descriptors []tool.Descriptor
	if err := json.Unmarshal(rec.Body.Bytes(), &descriptors); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(descriptors) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(descriptors))
	}
	for _, d := range descriptors {
		if d.Name == "" || d.Description == "" {
			t.Fatalf("incomplete descriptor: %+v", d)
		}
	}
}

func TestWithAuditSetsRequestID(t *testing.T) {
	handler := withAudit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected wrapped status to pass through, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}
