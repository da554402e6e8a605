package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRateTestRouter(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, m := range pre {
		r.Use(m)
	}
	r.Use(rl.Handler())
	r.POST("/submit", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	rl := NewRateLimiter(0.0001, 2, KeyByAdminOrIP())
	r := newRateTestRouter(rl)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d inside burst: want 200, got %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429 after burst, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("429 must carry Retry-After")
	}
}

func TestRateLimiter_KeysAreIsolated(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByAdminOrIP())
	r := newRateTestRouter(rl)

	// Exhaust the IP bucket.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited: %d", w.Code)
	}

	// A request presenting a session token lands in its own bucket.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Authorization", "Bearer session-token-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("distinct identity must not be starved: %d", w.Code)
	}
}

func TestRateLimiter_ReplayBypasses(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByAdminOrIP())
	markBypass := func(c *gin.Context) {
		c.Set(ctxKeyRateBypass, true)
		c.Next()
	}
	r := newRateTestRouter(rl, markBypass)

	// Every request bypasses, none consumes tokens.
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("replay %d should bypass the limiter, got %d", i, w.Code)
		}
	}
}
