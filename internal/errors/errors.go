// Package errors maps internal errors onto HTTP statuses and writes
// the JSON error envelope returned by the HTTP surface.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	fulerrors "github.com/fulmenhq/gofulmen/errors"

	"github.com/chenat9/mcp-server/internal/credential"
	"github.com/chenat9/mcp-server/pkg/storage"
)

// HTTPErrorDetail is the inner object of the wire format.
type HTTPErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// HTTPErrorResponse is the wire format for all HTTP errors.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// WriteError serializes an error envelope to the response writer. The
// envelope's details map, or its context map when no details were set,
// becomes the wire-level details object.
func WriteError(w http.ResponseWriter, envelope *fulerrors.ErrorEnvelope, status int) {
	details := envelope.Details
	if details == nil {
		details = envelope.Context
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      envelope.Code,
			Message:   envelope.Message,
			RequestID: envelope.CorrelationID,
			Details:   details,
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// RespondWithError maps err onto an HTTP status and error code and
// writes the envelope.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	WriteError(w, fulerrors.NewErrorEnvelope(code, err.Error()), status)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, storage.ErrBucketNotFound):
		return http.StatusNotFound, "BUCKET_NOT_FOUND"
	case errors.Is(err, storage.ErrBucketNotAllowed):
		return http.StatusForbidden, "BUCKET_NOT_ALLOWED"
	case errors.Is(err, storage.ErrAccessDenied):
		return http.StatusForbidden, "ACCESS_DENIED"
	case errors.Is(err, storage.ErrInvalidCredentials),
		errors.Is(err, credential.ErrMissing),
		errors.Is(err, credential.ErrMalformed),
		errors.Is(err, credential.ErrIncomplete),
		errors.Is(err, credential.ErrExpired):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, storage.ErrThrottled):
		return http.StatusTooManyRequests, "THROTTLED"
	case errors.Is(err, storage.ErrObjectTooLarge):
		return http.StatusRequestEntityTooLarge, "OBJECT_TOO_LARGE"
	case errors.Is(err, storage.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
