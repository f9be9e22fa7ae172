package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestAllowWindow(t *testing.T) {
	defer goleak.VerifyNone(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: 3, Now: clock.Now})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "other clients are independent")
	assert.Equal(t, int64(1), rl.Rejected())

	clock.Advance(30 * time.Second)
	assert.False(t, rl.Allow("1.2.3.4"), "still inside the window")
	assert.Equal(t, 30*time.Second, rl.RetryAfter("1.2.3.4"))

	clock.Advance(30 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "window reset")
	assert.Equal(t, 2, rl.ActiveClients())
}

func TestCleanupStaleEntries(t *testing.T) {
	defer goleak.VerifyNone(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewLimiter(Config{RequestsPerMinute: 3, Now: clock.Now})
	defer rl.Stop()

	rl.Allow("1.2.3.4")
	clock.Advance(11 * time.Minute)
	rl.Allow("5.6.7.8")
	rl.cleanupStaleEntries()
	assert.Equal(t, 1, rl.ActiveClients())
}

func TestMiddlewareReturns429(t *testing.T) {
	defer goleak.VerifyNone(t)
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	var limited int
	h := rl.Middleware(func(*http.Request) string { return "9.9.9.9" }, func(*http.Request) { limited++ })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, limited)
}

func TestStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
