package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/percytech/hubgate/internal/config"
)

func TestRateLimitBlocksAfterThreshold(t *testing.T) {
	handler := RateLimit(RateLimitConfig{
		Requests: 2,
		Window:   time.Minute,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want 429", rec.Code)
	}
}

func TestCreateRateLimitersDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiters := CreateRateLimiters(config.RateLimitConfig{Enabled: false}, logger)

	for _, class := range []string{"auth", "check", "admin"} {
		mw, ok := limiters[class]
		if !ok {
			t.Fatalf("missing limiter class %q", class)
		}
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("disabled limiter %q blocked request %d", class, i+1)
			}
		}
	}
}

func TestCreateRateLimitersClasses(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiters := CreateRateLimiters(config.RateLimitConfig{
		Enabled:                true,
		AuthRequestsPerWindow:  10,
		AuthWindowMinutes:      15,
		CheckRequestsPerWindow: 120,
		CheckWindowMinutes:     1,
		AdminRequestsPerWindow: 30,
		AdminWindowMinutes:     5,
	}, logger)

	for _, class := range []string{"auth", "check", "admin"} {
		if _, ok := limiters[class]; !ok {
			t.Errorf("missing limiter class %q", class)
		}
	}
}
