package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	handlers.InitContentHandler(nil)
}

func TestWrapInjectsTrace(t *testing.T) {
	var seen string
	h := Wrap(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Trace-Id", "abc-123")
	rr := httptest.NewRecorder()
	h(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Trace-Id"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr = httptest.NewRecorder()
	h(rr, req)
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "abc-123", seen)
	assert.Equal(t, seen, rr.Header().Get("X-Trace-Id"))
}

func TestWrapRateLimits(t *testing.T) {
	calls := 0
	h := Wrap(func(w http.ResponseWriter, r *http.Request) { calls++ })

	var last *httptest.ResponseRecorder
	for range config.BURST_RATE_LIMIT_PER_SECOND + 1 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.50:999"
		last = httptest.NewRecorder()
		h(last, req)
	}

	assert.Equal(t, config.BURST_RATE_LIMIT_PER_SECOND, calls)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Rate limit exceeded", body["detail"])
}

func TestIPRateLimiterSweepsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := range limiterSweepSize {
		l.GetLimiter(fmt.Sprintf("10.1.%d.%d", i/256, i%256))
	}
	assert.Equal(t, limiterSweepSize, l.size())

	now = now.Add(limiterIdleTTL + time.Second)
	l.GetLimiter("10.9.9.9")
	assert.Equal(t, 1, l.size())
}

func TestCorsAllowsConfiguredOrigin(t *testing.T) {
	h := Cors([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/upload-pdf", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
