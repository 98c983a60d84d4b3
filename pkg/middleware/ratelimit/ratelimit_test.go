package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func router(perSecond float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sessions", New(perSecond, burst), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func post(r *gin.Engine) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	return w.Code
}

func TestLimiterRejectsAfterBurst(t *testing.T) {
	r := router(0.001, 2)
	assert.Equal(t, http.StatusCreated, post(r))
	assert.Equal(t, http.StatusCreated, post(r))
	assert.Equal(t, http.StatusTooManyRequests, post(r))
}

func TestLimiterDisabled(t *testing.T) {
	r := router(0, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusCreated, post(r))
	}
}

func TestLimiterSharedBetweenMiddlewareAndDirectCalls(t *testing.T) {
	limiter := NewLimiter(0.001, 2)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sessions", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.True(t, limiter.Allow())
	assert.Equal(t, http.StatusCreated, post(r))
	assert.Equal(t, http.StatusTooManyRequests, post(r))
	assert.False(t, limiter.Allow())
}

func TestNilLimiterAllows(t *testing.T) {
	var limiter *Limiter
	assert.Nil(t, NewLimiter(0, 5))
	assert.True(t, limiter.Allow())
}
