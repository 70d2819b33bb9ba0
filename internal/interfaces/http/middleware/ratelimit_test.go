package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"))

	// A different key gets its own bucket
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiterRemaining(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, rl.Remaining("10.0.0.1"))
	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	assert.Equal(t, 3, rl.Remaining("10.0.0.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(2, time.Minute)
	engine := gin.New()
	engine.Use(RateLimit(rl))
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
}

func TestRateLimitByKeyScopesBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1, time.Minute)
	keyed := RateLimitByKey(rl, func(c *gin.Context) string {
		return c.ClientIP() + ":" + c.FullPath()
	})

	engine := gin.New()
	engine.POST("/login", keyed, func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/register", keyed, func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.1.1.1:1234"
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/login"))
	assert.Equal(t, http.StatusTooManyRequests, send("/login"))
	// The register bucket is independent of the exhausted login bucket
	assert.Equal(t, http.StatusOK, send("/register"))
}
