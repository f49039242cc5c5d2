// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/live-poll/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"message": "hello"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"message":"hello"}` {
		t.Errorf("Unexpected body: %s", got)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusBadRequest, "question is required")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "Bad Request" || resp.Message != "question is required" {
		t.Errorf("Unexpected error payload: %+v", resp)
	}
}

func TestParseJSONBody(t *testing.T) {
	body := bytes.NewBufferString(`{"question":"Q?","time_limit":30}`)
	req := httptest.NewRequest("POST", "/polls", body)

	var parsed models.CreatePollRequest
	if err := ParseJSONBody(req, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Question != "Q?" || parsed.TimeLimit != 30 {
		t.Errorf("Unexpected parse result: %+v", parsed)
	}

	bad := httptest.NewRequest("POST", "/polls", bytes.NewBufferString("not json"))
	if err := ParseJSONBody(bad, &parsed); err == nil {
		t.Error("Expected error for malformed body")
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("passed"))
	})

	t.Run("fixed origin", func(t *testing.T) {
		handler := CORS("http://localhost:5173", next)
		req := httptest.NewRequest("GET", "/polls/active", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Expected fixed origin, got %q", got)
		}
		if w.Body.String() != "passed" {
			t.Error("Expected request to reach the next handler")
		}
	})

	t.Run("wildcard echoes request origin", func(t *testing.T) {
		handler := CORS("*", next)
		req := httptest.NewRequest("GET", "/polls/active", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
			t.Errorf("Expected echoed origin, got %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		handler := CORS("*", next)
		req := httptest.NewRequest("OPTIONS", "/polls", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() == "passed" {
			t.Error("Preflight should not reach the next handler")
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "192.168.1.1:1234", "10.0.0.1"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.168.1.1:1234", "10.0.0.1"},
		{"x-real-ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "192.168.1.1:1234", "10.0.0.3"},
		{"remote addr fallback", nil, "192.168.1.1:1234", "192.168.1.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
