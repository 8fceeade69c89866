package middleware

import (
	"encoding/json"
	"net/http"

	"mercator-hq/vendorgate/pkg/telemetry/logging"
)

// Error types used in the JSON error envelope.
const (
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeUnauthorized   = "unauthorized"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeMethod         = "method_not_allowed"
	ErrorTypeRateLimited    = "rate_limited"
	ErrorTypeTimeout        = "timeout"
	ErrorTypeStorage        = "storage_error"
	ErrorTypeInternal       = "internal_error"
)

// ErrorBody is the body of an error response.
type ErrorBody struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError writes an error envelope with the given status code. The
// request id is taken from the request context.
func WriteError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	resp := ErrorResponse{Error: ErrorBody{
		Type:      errType,
		Message:   message,
		RequestID: logging.GetRequestID(r.Context()),
	}}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
