// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remote string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	req.RemoteAddr = remote
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterRejectsBurstOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		if rec := hit(h, "10.0.0.1:4000", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, rec.Code)
		}
	}
	rec := hit(h, "10.0.0.1:4000", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 missing Retry-After")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "rate limit exceeded") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware(okHandler())

	if rec := hit(h, "10.0.0.1:4000", nil); rec.Code != http.StatusOK {
		t.Fatalf("first client: got %d", rec.Code)
	}
	if rec := hit(h, "10.0.0.1:4000", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second hit: got %d, want 429", rec.Code)
	}
	// A different IP has its own bucket.
	if rec := hit(h, "10.0.0.2:4000", nil); rec.Code != http.StatusOK {
		t.Fatalf("second client: got %d", rec.Code)
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	h := rl.Middleware(okHandler())

	if rec := hit(h, "10.0.0.1:4000", nil); rec.Code != http.StatusOK {
		t.Fatalf("first: got %d", rec.Code)
	}
	if rec := hit(h, "10.0.0.1:4000", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: got %d, want 429", rec.Code)
	}
	time.Sleep(30 * time.Millisecond)
	if rec := hit(h, "10.0.0.1:4000", nil); rec.Code != http.StatusOK {
		t.Fatalf("after refill: got %d", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{"remote addr only", "192.168.1.9:5823", nil, "192.168.1.9"},
		{"x-forwarded-for single", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.allow("203.0.113.7")

	rl.mu.Lock()
	rl.clients["203.0.113.7"].lastSeen = time.Now().Add(-pruneAfter - time.Minute)
	rl.mu.Unlock()

	// Admitting a new client triggers the prune.
	rl.allow("203.0.113.8")

	rl.mu.Lock()
	_, stale := rl.clients["203.0.113.7"]
	_, fresh := rl.clients["203.0.113.8"]
	rl.mu.Unlock()
	if stale {
		t.Error("idle client survived the prune")
	}
	if !fresh {
		t.Error("new client missing after the prune")
	}
}
