package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/af-corp/mathforge/internal/apperr"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, "req_123", http.StatusBadRequest, apperr.KindValidation, "missing_field", "test message")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	if rid := w.Header().Get("X-Request-ID"); rid != "req_123" {
		t.Errorf("expected X-Request-ID req_123, got %s", rid)
	}

	var resp APIError
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Error != "Invalid input" {
		t.Errorf("expected error 'Invalid input', got %q", resp.Error)
	}
	if resp.Message != "test message" {
		t.Errorf("expected message 'test message', got %q", resp.Message)
	}
	if resp.Type != "validation_error" {
		t.Errorf("expected type 'validation_error', got %q", resp.Type)
	}
	if resp.RequestID != "req_123" {
		t.Errorf("expected request_id 'req_123', got %q", resp.RequestID)
	}
}

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        apperr.Validation("missing_field", "Field 'a' is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
			wantCode:   "missing_field",
			wantMsg:    "Field 'a' is required",
		},
		{
			name:       "wrapped domain",
			err:        fmt.Errorf("compute: %w", apperr.Domain("division_by_zero", "Cannot divide by zero")),
			wantStatus: http.StatusBadRequest,
			wantType:   "domain_error",
			wantCode:   "division_by_zero",
			wantMsg:    "Cannot divide by zero",
		},
		{
			name:       "policy",
			err:        apperr.Policy("request_denied", "too big"),
			wantStatus: http.StatusBadRequest,
			wantType:   "policy_error",
			wantCode:   "request_denied",
			wantMsg:    "too big",
		},
		{
			name:       "internal hides cause",
			err:        apperr.Internal(errors.New("disk on fire"), "guard failed"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
			wantCode:   "internal_error",
			wantMsg:    "An unexpected error occurred",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
			wantCode:   "internal_error",
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAppError(w, "req_1", tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp APIError
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Type != tt.wantType || resp.Code != tt.wantCode || resp.Message != tt.wantMsg {
				t.Errorf("unexpected body: %+v", resp)
			}
			if strings.Contains(w.Body.String(), "disk on fire") {
				t.Error("internal cause leaked into response")
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
