package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"golang.org/x/time/rate"
)

func TestIsValidBearerToken(t *testing.T) {
	log := logger_i.NewLogger("test")
	tests := []struct {
		name     string
		header   string
		token    string
		expected bool
	}{
		{name: "Auth_Disabled", header: "", token: "", expected: true},
		{name: "Valid", header: "Bearer s3cret", token: "s3cret", expected: true},
		{name: "Missing_Header", header: "", token: "s3cret", expected: false},
		{name: "Wrong_Scheme", header: "Basic s3cret", token: "s3cret", expected: false},
		{name: "Wrong_Token", header: "Bearer nope", token: "s3cret", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidBearerToken(tt.header, tt.token, log); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	var seenTrace string
	next := func(w http.ResponseWriter, r *http.Request) {
		seenTrace = config.TraceID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}
	handler := Wrap(next)

	Init("s3cret")
	defer Init("")

	t.Run("Rejects_Without_Token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		handler(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("Passes_Trace_Through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.2:1000"
		req.Header.Set("Authorization", "Bearer s3cret")
		req.Header.Set("X-Trace-Id", "trace-42")
		handler(rec, req)
		if rec.Code != http.StatusTeapot {
			t.Fatalf("expected the wrapped handler to run, got %d", rec.Code)
		}
		if seenTrace != "trace-42" || rec.Header().Get("X-Trace-Id") != "trace-42" {
			t.Errorf("trace id not propagated: ctx=%q header=%q", seenTrace, rec.Header().Get("X-Trace-Id"))
		}
	})
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	a := limiter.GetLimiter("1.1.1.1")
	if a != limiter.GetLimiter("1.1.1.1") {
		t.Error("expected one limiter per ip")
	}
	if !a.Allow() || !a.Allow() || a.Allow() {
		t.Error("expected the burst to be exhausted after two requests")
	}
	if !limiter.GetLimiter("2.2.2.2").Allow() {
		t.Error("other ips keep their own budget")
	}
}

func TestIPRateLimiterForgetsIdleVisitors(t *testing.T) {
	clock := time.Now()
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.now = func() time.Time { return clock }

	first := limiter.GetLimiter("1.1.1.1")
	first.Allow()

	clock = clock.Add(visitorIdleTTL + time.Minute)
	if limiter.GetLimiter("1.1.1.1") == first {
		t.Error("expected an idle visitor to get a fresh limiter")
	}
	if len(limiter.visitors) != 1 {
		t.Errorf("expected one tracked visitor, got %d", len(limiter.visitors))
	}
}
