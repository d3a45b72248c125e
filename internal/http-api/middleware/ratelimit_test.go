package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(perMinute, burst int, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/claim",
		func(c *gin.Context) {
			c.Set("userID", userID)
			c.Next()
		},
		PerUserRateLimit(perMinute, burst),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)
	return r
}

func TestPerUserRateLimit_BurstThenThrottle(t *testing.T) {
	r := rateLimitedRouter(1, 3, "user-1")

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/claim", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/claim", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestPerUserRateLimit_PerUserBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limit := PerUserRateLimit(1, 1)
	r.POST("/claim/:user",
		func(c *gin.Context) {
			c.Set("userID", c.Param("user"))
			c.Next()
		},
		limit,
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)

	// user-1 exhausts its bucket.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/claim/user-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/claim/user-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// user-2 is unaffected.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/claim/user-2", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserLimiters_IdleEntriesEvicted(t *testing.T) {
	now := time.Now()
	u := &userLimiters{
		limiters:  make(map[string]*userLimiter),
		limit:     rate.Limit(1),
		burst:     1,
		idleTTL:   limiterIdleTTL,
		lastSweep: now.Add(-2 * limiterSweepInterval),
	}
	u.limiters["stale"] = &userLimiter{
		Limiter:  rate.NewLimiter(u.limit, u.burst),
		lastSeen: now.Add(-2 * limiterIdleTTL),
	}
	u.limiters["fresh"] = &userLimiter{
		Limiter:  rate.NewLimiter(u.limit, u.burst),
		lastSeen: now,
	}

	u.get("another")

	assert.NotContains(t, u.limiters, "stale")
	assert.Contains(t, u.limiters, "fresh")
	assert.Contains(t, u.limiters, "another")
}

func TestUserLimiters_ActiveEntrySurvivesSweep(t *testing.T) {
	now := time.Now()
	u := &userLimiters{
		limiters:  make(map[string]*userLimiter),
		limit:     rate.Limit(1),
		burst:     1,
		idleTTL:   limiterIdleTTL,
		lastSweep: now.Add(-2 * limiterSweepInterval),
	}
	l := rate.NewLimiter(u.limit, u.burst)
	l.Allow() // drain the bucket
	u.limiters["user-1"] = &userLimiter{Limiter: l, lastSeen: now}

	// The sweep must not replace an active entry with a fresh bucket.
	got := u.get("user-1")
	assert.Same(t, l, got)
}

func TestPerUserRateLimit_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/claim", PerUserRateLimit(10, 5), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/claim", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
