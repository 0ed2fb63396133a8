package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
)

var secret = []byte("test-secret")

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	valid, err := IssueToken(secret, "office", time.Hour, time.Now())
	require.NoError(t, err)

	expired, err := IssueToken(secret, "office", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	foreign, err := IssueToken([]byte("other"), "office", time.Hour, time.Now())
	require.NoError(t, err)

	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "viewer",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + valid, want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "no bearer prefix", header: valid, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "not admin", header: "Bearer " + notAdmin, want: http.StatusForbidden},
	}

	var subject string
	h := Auth(secret, logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "office", subject)
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil, logger.NewNop())
	h := rl.Limit(http.HandlerFunc(okHandler))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))

	rl.Cleanup(time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
}

func TestRateLimiter_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil, logger.NewNop())
	h := rl.Limit(http.HandlerFunc(okHandler))

	passed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			passed++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}

	assert.Equal(t, 1, passed)
}

func TestRateLimiter_ClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	rl := NewRateLimiter(60, 1, trusted, logger.NewNop())

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "untrusted peer", remoteAddr: "203.0.113.7:1234", forwarded: "198.51.100.1", want: "203.0.113.7"},
		{name: "trusted peer without header", remoteAddr: "10.0.0.5:1234", want: "10.0.0.5"},
		{name: "trusted peer", remoteAddr: "10.0.0.5:1234", forwarded: "198.51.100.1", want: "198.51.100.1"},
		{name: "spoofed left entry", remoteAddr: "10.0.0.5:1234", forwarded: "1.2.3.4, 198.51.100.1", want: "198.51.100.1"},
		{name: "proxy chain", remoteAddr: "10.0.0.5:1234", forwarded: "198.51.100.1, 10.0.0.9", want: "198.51.100.1"},
		{name: "garbage hop", remoteAddr: "10.0.0.5:1234", forwarded: "not-an-ip", want: "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, given)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, given, seen)
}

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []observed
}

func (f *fakeObserver) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, observed{method, route, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	obs := &fakeObserver{}
	router := mux.NewRouter()
	router.Use(Metrics(obs))
	router.HandleFunc("/api/v1/admin/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings/2026-10-19_09:00", nil))

	require.Len(t, obs.calls, 1)
	assert.Equal(t, observed{http.MethodGet, "/api/v1/admin/bookings/{bookingId}", http.StatusNotFound}, obs.calls[0])
}
