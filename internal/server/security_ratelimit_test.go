package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityLoggingMiddleware_RateLimiting(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := SecurityLoggingMiddleware(nil, detector)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ip := "192.168.1.100"
	req := httptest.NewRequest("GET", "/api/v1/discovery/roll", nil)
	req.RemoteAddr = ip + ":1234"

	// Exhaust the per-window allowance
	for i := 0; i < requestRateLimit; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with status %d", i, rec.Code)
		}
	}

	// Next request should be blocked
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 Too Many Requests, got %d", rec.Code)
	}

	detector.mu.Lock()
	count := detector.requestCountByIP[ip]
	detector.mu.Unlock()

	if count != requestRateLimit+1 {
		t.Errorf("expected count %d, got %d", requestRateLimit+1, count)
	}
}

func TestSecurityLoggingMiddleware_SeparateIPBudgets(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := SecurityLoggingMiddleware(nil, detector)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	blocked := httptest.NewRequest("GET", "/api/v1/inventory", nil)
	blocked.RemoteAddr = "10.0.0.1:5000"
	for i := 0; i < requestRateLimit+1; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), blocked)
	}

	other := httptest.NewRequest("GET", "/api/v1/inventory", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)

	if rec.Code != http.StatusOK {
		t.Errorf("expected unrelated IP to pass, got %d", rec.Code)
	}
}
