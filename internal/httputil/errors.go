package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/af-corp/mathforge/internal/apperr"
)

// APIError is the body written for every failed request.
type APIError struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, requestID string, statusCode int, kind apperr.Kind, code, message string) {
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	WriteJSON(w, statusCode, APIError{
		Error:     kind.Headline(),
		Message:   message,
		Type:      string(kind),
		Code:      code,
		RequestID: requestID,
	})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindDomain, apperr.KindPolicy:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err using its apperr classification. Errors outside
// the taxonomy are reported as internal without exposing their text.
func WriteAppError(w http.ResponseWriter, requestID string, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		WriteInternalError(w, requestID, "An unexpected error occurred")
		return
	}
	message := ae.Message
	if ae.Kind == apperr.KindInternal {
		message = "An unexpected error occurred"
	}
	WriteError(w, requestID, StatusFor(ae.Kind), ae.Kind, ae.Code, message)
}

func WriteBadRequestError(w http.ResponseWriter, requestID, code, message string) {
	WriteError(w, requestID, http.StatusBadRequest, apperr.KindValidation, code, message)
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusInternalServerError, apperr.KindInternal, "internal_error", message)
}

func WriteNotFoundError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusNotFound, apperr.KindValidation, "not_found", message)
}

func WriteMethodNotAllowedError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusMethodNotAllowed, apperr.KindValidation, "method_not_allowed", message)
}
