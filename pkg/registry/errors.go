package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the registry has no record for the CR number.
	ErrNotFound = errors.New("commercial registration not found")

	// ErrMissingAPIKey indicates no API key is configured.
	ErrMissingAPIKey = errors.New("registry API key is not set")

	// ErrCacheMiss indicates the cache holds no entry for the key.
	ErrCacheMiss = errors.New("cache miss")
)

// HTTPError reports a non-success response from the registry.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error returns the error message.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("registry returned status %d: %s", e.StatusCode, e.Body)
}
