package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/votesafe/internal/errors"
	"github.com/allisson/votesafe/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTimeout     = time.Hour
)

// rateLimiterStore holds keyed rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newRateLimiterStore(ctx context.Context, rps float64, burst int) *rateLimiterStore {
	store := &rateLimiterStore{rps: rps, burst: burst}
	go store.cleanupStale(ctx, limiterCleanupInterval, limiterIdleTimeout)
	return store
}

// IPRateLimitMiddleware enforces per-IP rate limiting on the unauthenticated
// login endpoints to slow down credential stuffing and OTP guessing.
//
// Uses c.ClientIP(), which honours X-Forwarded-For and X-Real-IP according
// to the engine's trusted proxy settings. The cleanup goroutine stops when
// ctx is cancelled.
//
// Returns 429 Too Many Requests with a Retry-After header when the limit is exceeded.
func IPRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(ctx, rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if store.allow(c, clientIP) {
			c.Next()
			return
		}

		logger.Debug("ip rate limit exceeded", slog.String("client_ip", clientIP))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "Too many authentication requests from this IP. Please retry after the specified delay.",
		})
		c.Abort()
	}
}

// SessionRateLimitMiddleware enforces per-voter rate limiting on authenticated requests.
//
// MUST be used after SessionMiddleware. Limiters are keyed by user id so a
// voter holding several sessions shares one budget.
func SessionRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(ctx, rps, burst)

	return func(c *gin.Context) {
		session, ok := GetSession(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated session in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		userID := session.UserID.String()
		if store.allow(c, userID) {
			c.Next()
			return
		}

		logger.Debug("session rate limit exceeded", slog.String("user_id", userID))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "Too many requests. Please retry after the specified delay.",
		})
		c.Abort()
	}
}

// allow consumes one token for key and sets Retry-After when none is available.
func (s *rateLimiterStore) allow(c *gin.Context, key string) bool {
	limiter := s.getLimiter(key)
	if limiter.Allow() {
		return true
	}

	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	return false
}

// getLimiter retrieves or creates the rate limiter for key.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	now := time.Now()
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale removes limiters idle for longer than idle.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-idle))
		}
	}
}

func (s *rateLimiterStore) evictIdle(threshold time.Time) int {
	removed := 0
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
