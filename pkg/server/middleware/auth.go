package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/telemetry/logging"
)

// APIKeyMiddleware rejects requests that do not carry one of the configured
// API keys with 401. The matching key's name is stored in the request
// context for logging. It is a no-op when cfg is nil or disabled.
func APIKeyMiddleware(cfg *config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg == nil || !cfg.Enabled {
			return next
		}
		if logger == nil {
			logger = slog.Default()
		}
		header := cfg.Header
		if header == "" {
			header = config.DefaultAuthHeader
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := extractAPIKey(r, header)
			if presented == "" {
				logger.WarnContext(r.Context(), "missing API key",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				WriteError(w, r, http.StatusUnauthorized, ErrorTypeUnauthorized, "missing API key")
				return
			}

			name, ok := matchAPIKey(cfg.Keys, presented)
			if !ok {
				logger.WarnContext(r.Context(), "invalid API key",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				WriteError(w, r, http.StatusUnauthorized, ErrorTypeUnauthorized, "invalid API key")
				return
			}

			ctx := logging.WithClient(r.Context(), name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAPIKey reads the key from header, falling back to an
// Authorization bearer token.
func extractAPIKey(r *http.Request, header string) string {
	value := strings.TrimSpace(r.Header.Get(header))
	if value == "" {
		value = strings.TrimSpace(r.Header.Get("Authorization"))
	}
	if token, ok := strings.CutPrefix(value, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return value
}

// matchAPIKey compares presented against every enabled key in constant time.
func matchAPIKey(keys []config.APIKey, presented string) (string, bool) {
	name, found := "", false
	for _, k := range keys {
		if k.Disabled || k.Key == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(presented)) == 1 {
			name, found = k.Name, true
		}
	}
	return name, found
}
