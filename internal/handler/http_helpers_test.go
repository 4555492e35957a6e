package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdf-study-assistant/internal/domain"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusTeapot, "nope")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"nope"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteError_EscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, `bad "quote"`)

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected valid JSON, got %s", rr.Body.String())
	}
	if body["error"] != `bad "quote"` {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantType string
	}{
		{name: "Malformed", err: fmt.Errorf("%w: xref", domain.ErrMalformedDocument), status: http.StatusUnprocessableEntity, wantType: "processing"},
		{name: "Not a PDF", err: domain.ErrInvalidFile, status: http.StatusBadRequest, wantType: "validation"},
		{name: "Missing session", err: domain.ErrSessionNotFound, status: http.StatusNotFound, wantType: "not_found"},
		{name: "No agent", err: domain.ErrAgentUnavailable, status: http.StatusServiceUnavailable, wantType: "unavailable"},
		{name: "Unknown", err: errors.New("boom"), status: http.StatusInternalServerError, wantType: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeAppError(rr, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body["type"] != tt.wantType {
				t.Fatalf("expected type %q, got %q", tt.wantType, body["type"])
			}
			if body["error"] == "" {
				t.Fatal("expected an error message")
			}
			if tt.name == "Unknown" && strings.Contains(body["error"], "boom") {
				t.Fatal("internal error details must not leak")
			}
		})
	}
}
