package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/telemetry/logging"
)

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	l := NewRateLimiter(2, 3)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow("a"); !ok {
			t.Fatalf("Allow() #%d = false, want true within burst", i+1)
		}
	}
	ok, wait := l.Allow("a")
	if ok {
		t.Fatal("Allow() after burst = true, want false")
	}
	if wait != 500*time.Millisecond {
		t.Errorf("wait = %v, want 500ms", wait)
	}

	if ok, _ := l.Allow("b"); !ok {
		t.Error("Allow(b) = false, want independent bucket per client")
	}

	now = now.Add(500 * time.Millisecond)
	if ok, _ := l.Allow("a"); !ok {
		t.Error("Allow() after refill = false, want true")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	handler := RateLimitMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote, client string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/validate-portal-fields", nil)
		req.RemoteAddr = remote
		if client != "" {
			req = req.WithContext(logging.WithClient(req.Context(), client))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	if w := send("10.0.0.1:1234", ""); w.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", w.Code)
	}
	w := send("10.0.0.1:5678", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request from same IP = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if body := decodeError(t, w.Body.Bytes()); body.Type != ErrorTypeRateLimited {
		t.Errorf("error type = %q, want %q", body.Type, ErrorTypeRateLimited)
	}

	if w := send("10.0.0.2:1234", ""); w.Code != http.StatusOK {
		t.Errorf("other IP = %d, want 200", w.Code)
	}
	if w := send("10.0.0.1:1234", "portal"); w.Code != http.StatusOK {
		t.Errorf("authenticated client on limited IP = %d, want 200", w.Code)
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := RateLimitMiddleware(&config.RateLimitConfig{Enabled: false, RequestsPerSecond: 1, Burst: 1})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i, w.Code)
		}
	}
}
