// Package middleware provides the HTTP middleware chain of the vendorgate
// server.
//
// # Chain
//
// Middleware is applied outermost first:
//
//	RecoveryMiddleware -> RequestIDMiddleware -> LoggingMiddleware ->
//	tracing -> MetricsMiddleware -> CORSMiddleware
//
// The validation routes add APIKeyMiddleware -> RateLimitMiddleware ->
// TimeoutMiddleware on top. Rate limiting runs after authentication so that
// authenticated callers get a bucket per key name rather than per address.
//
// Recovery sits outermost so that a panic anywhere in the chain produces a
// JSON 500 instead of a dropped connection.
//
// # Request IDs
//
// RequestIDMiddleware honours an incoming X-Request-ID header and otherwise
// generates a UUID. The id is echoed in the response, stored in the request
// context (see logging.GetRequestID) and attached to every log record written
// with that context.
//
// # Errors
//
// Middleware and handlers report failures with WriteError, which writes the
// JSON envelope:
//
//	{"error": {"type": "invalid_request", "message": "...", "request_id": "..."}}
package middleware
