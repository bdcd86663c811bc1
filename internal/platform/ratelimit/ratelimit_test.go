package ratelimit

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorlink/pkg/platform/middleware/metadata"
)

func fixedStore(limit int, window time.Duration, clock *time.Time) *Store {
	s := NewStore(limit, window)
	s.now = func() time.Time { return *clock }
	return s
}

func TestStore_SlidingWindow(t *testing.T) {
	clock := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	s := fixedStore(2, time.Minute, &clock)

	assert.True(t, s.Allow("10.0.0.1").Allowed)
	clock = clock.Add(20 * time.Second)
	second := s.Allow("10.0.0.1")
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	denied := s.Allow("10.0.0.1")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 40, denied.RetryAfter)

	assert.True(t, s.Allow("10.0.0.2").Allowed, "keys are independent")

	clock = clock.Add(41 * time.Second)
	assert.True(t, s.Allow("10.0.0.1").Allowed, "first request left the window")
}

func TestStore_Sweep(t *testing.T) {
	clock := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	s := fixedStore(1, time.Minute, &clock)
	s.Allow("a")
	clock = clock.Add(2 * time.Minute)
	s.Sweep()
	assert.Empty(t, s.buckets)
}

func TestLimitWrites(t *testing.T) {
	clock := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := metadata.ClientMetadata(LimitWrites(fixedStore(1, time.Minute, &clock), slog.New(slog.NewTextHandler(io.Discard, nil)))(ok))

	do := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/donors/1/donations", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	first := do(http.MethodPost)
	require.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := do(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate_limit_exceeded")

	assert.Equal(t, http.StatusNoContent, do(http.MethodGet).Code, "reads are not limited")
}

func TestLimitWrites_NilStoreDisables(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := LimitWrites(nil, slog.Default())(ok)
	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	}
}
