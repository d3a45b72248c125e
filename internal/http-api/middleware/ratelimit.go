package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// limiterIdleTTL must exceed the time a full bucket takes to refill, so
	// eviction never hands a throttled user a fresh bucket early.
	limiterIdleTTL       = 15 * time.Minute
	limiterSweepInterval = time.Minute
)

type userLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// userLimiters hands out one token bucket per authenticated user. Idle
// entries are swept so the map stays bounded by recently active users.
type userLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
}

func (u *userLimiters) get(userID string) *rate.Limiter {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := time.Now()
	if now.Sub(u.lastSweep) > limiterSweepInterval {
		for id, l := range u.limiters {
			if now.Sub(l.lastSeen) > u.idleTTL {
				delete(u.limiters, id)
			}
		}
		u.lastSweep = now
	}

	l, ok := u.limiters[userID]
	if !ok {
		l = &userLimiter{Limiter: rate.NewLimiter(u.limit, u.burst)}
		u.limiters[userID] = l
	}
	l.lastSeen = now
	return l.Limiter
}

// PerUserRateLimit throttles a route per authenticated user. Used on the
// claim-attempt endpoint so one claimant cannot flood a poster with
// notifications.
func PerUserRateLimit(perMinute, burst int) gin.HandlerFunc {
	limiters := &userLimiters{
		limiters:  make(map[string]*userLimiter),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
	}

	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if !limiters.get(userID.(string)).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}

		c.Next()
	}
}
