package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mercator-hq/vendorgate/pkg/portal"
	"mercator-hq/vendorgate/pkg/server/middleware"
	"mercator-hq/vendorgate/pkg/supplier"
	"mercator-hq/vendorgate/pkg/validation"
)

// FullRequest is the body of POST /v1/suppliers/{supplierID}/validate.
type FullRequest struct {
	Portal    map[string]any       `json:"portal"`
	Documents validation.Documents `json:"documents"`
}

type handlers struct {
	service *supplier.Service
	maxBody int64
	logger  *slog.Logger
}

func (h *handlers) validatePortalFields(w http.ResponseWriter, r *http.Request) {
	var payload portal.SupplierPayload
	if !h.decode(w, r, &payload) {
		return
	}

	resp, err := h.service.ValidatePortal(r.Context(), payload)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) validateSupplier(w http.ResponseWriter, r *http.Request) {
	var req FullRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Portal == nil {
		req.Portal = map[string]any{}
	}

	result, err := h.service.ValidateFull(r.Context(), chi.URLParam(r, "supplierID"), req.Portal, req.Documents)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decode reads a single JSON object from the body into v. It writes the
// error response and returns false on failure.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			middleware.WriteError(w, r, http.StatusRequestEntityTooLarge, middleware.ErrorTypeInvalidRequest,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			middleware.WriteError(w, r, http.StatusBadRequest, middleware.ErrorTypeInvalidRequest,
				"request body is empty")
		default:
			middleware.WriteError(w, r, http.StatusBadRequest, middleware.ErrorTypeInvalidRequest,
				"invalid JSON body: "+err.Error())
		}
		return false
	}
	if dec.More() {
		middleware.WriteError(w, r, http.StatusBadRequest, middleware.ErrorTypeInvalidRequest,
			"request body must contain a single JSON object")
		return false
	}
	return true
}

func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var sinkErr *supplier.SinkError
	switch {
	case errors.Is(err, supplier.ErrMissingSupplierID):
		middleware.WriteError(w, r, http.StatusBadRequest, middleware.ErrorTypeInvalidRequest, err.Error())
	case errors.As(err, &sinkErr):
		middleware.WriteError(w, r, http.StatusInternalServerError, middleware.ErrorTypeStorage,
			"validation results could not be stored")
	case errors.Is(err, context.DeadlineExceeded):
		middleware.WriteError(w, r, http.StatusGatewayTimeout, middleware.ErrorTypeTimeout, "request timed out")
	default:
		h.logger.ErrorContext(r.Context(), "validation failed", "error", err)
		middleware.WriteError(w, r, http.StatusInternalServerError, middleware.ErrorTypeInternal,
			"An internal error occurred. Please try again later.")
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
