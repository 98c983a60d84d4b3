package ratelimit

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/noah-isme/gpa-calculator/pkg/errors"
	"github.com/noah-isme/gpa-calculator/pkg/response"
)

// Limiter is a shared token bucket. A nil Limiter allows everything.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter builds a bucket refilled at perSecond tokens per second.
// A non-positive perSecond disables throttling and returns nil.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow spends one token if available.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.bucket.Allow()
}

// Middleware rejects requests with 429 RATE_LIMITED once the bucket is empty.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow() {
			Reject(c)
			return
		}
		c.Next()
	}
}

// Reject writes the JSON 429 response.
func Reject(c *gin.Context) {
	c.Header("Retry-After", "1")
	response.Error(c, appErrors.ErrRateLimited)
	c.Abort()
}

// New throttles the wrapped routes with a shared token bucket.
// A non-positive perSecond disables throttling.
func New(perSecond float64, burst int) gin.HandlerFunc {
	return NewLimiter(perSecond, burst).Middleware()
}
