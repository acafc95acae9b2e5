package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLimiter(t *testing.T, max int, window time.Duration) (*LoginRateLimiter, *time.Time) {
	t.Helper()

	rl := NewLoginRateLimiter(max, window)
	t.Cleanup(rl.Stop)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestAllow_BlocksAfterMaxAttempts(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Other IPs are unaffected.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestAllow_RefillsOverWindow(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)

	assert.True(t, rl.Allow("ip"))
	assert.True(t, rl.Allow("ip"))
	assert.False(t, rl.Allow("ip"))

	*clock = clock.Add(30 * time.Second)
	assert.True(t, rl.Allow("ip"))
}

func TestReset(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	assert.True(t, rl.Allow("ip"))
	assert.False(t, rl.Allow("ip"))

	rl.Reset("ip")
	assert.True(t, rl.Allow("ip"))
}

func TestRetryAfterSeconds(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	assert.Equal(t, 0, rl.RetryAfterSeconds("unknown"))

	rl.Allow("ip")
	rl.Allow("ip")
	rl.Allow("ip")

	got := rl.RetryAfterSeconds("ip")
	assert.Greater(t, got, 0)
	assert.LessOrEqual(t, got, 31)

	// Asking must not consume an attempt.
	assert.Equal(t, got, rl.RetryAfterSeconds("ip"))
}

func TestCleanup_DropsIdleVisitors(t *testing.T) {
	rl, clock := newTestLimiter(t, 1, time.Minute)

	rl.Allow("ip")
	*clock = clock.Add(2 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.visitors)
}

func TestExtractIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", ExtractIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", ExtractIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", ExtractIP(r))
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "45 second(s)", FormatRetryMessage(45))
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(120))
}
