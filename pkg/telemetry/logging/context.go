package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// SupplierIDKey is the context key for supplier identifiers.
	SupplierIDKey contextKey = "supplier_id"

	// ClientKey is the context key for the authenticated API client name.
	ClientKey contextKey = "client"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithSupplierID adds a supplier identifier to the context.
func WithSupplierID(ctx context.Context, supplierID string) context.Context {
	return context.WithValue(ctx, SupplierIDKey, supplierID)
}

// GetSupplierID retrieves the supplier identifier from the context.
func GetSupplierID(ctx context.Context) string {
	if supplierID, ok := ctx.Value(SupplierIDKey).(string); ok {
		return supplierID
	}
	return ""
}

// WithClient adds the authenticated client name to the context.
func WithClient(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ClientKey, name)
}

// GetClient retrieves the authenticated client name from the context.
func GetClient(ctx context.Context) string {
	if name, ok := ctx.Value(ClientKey).(string); ok {
		return name
	}
	return ""
}

// contextFields extracts the context values that are added to every record.
func contextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, slog.String(string(RequestIDKey), requestID))
	}
	if supplierID := GetSupplierID(ctx); supplierID != "" {
		fields = append(fields, slog.String(string(SupplierIDKey), supplierID))
	}
	if client := GetClient(ctx); client != "" {
		fields = append(fields, slog.String(string(ClientKey), client))
	}
	return fields
}

// contextHandler adds context fields to records logged with a context.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if fields := contextFields(ctx); len(fields) > 0 {
		rec = rec.Clone()
		rec.AddAttrs(fields...)
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}
