package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bistro_back_end/internal/cache"
)

type stubLimiter struct {
	res cache.RateResult
	err error
}

func (s stubLimiter) Allow(context.Context, string) (cache.RateResult, error) {
	return s.res, s.err
}

func serveThrough(h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(h)
	r.GET(path, func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAPIRateLimitDenies(t *testing.T) {
	rec := serveThrough(APIRateLimit(stubLimiter{res: cache.RateResult{Limit: 100, RetryAfter: 1500 * time.Millisecond}}), "/menu")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	assert.JSONEq(t, `{"error":"too many requests","retry_after":2}`, rec.Body.String())
}

func TestAPIRateLimitAllows(t *testing.T) {
	rec := serveThrough(APIRateLimit(stubLimiter{res: cache.RateResult{Allowed: true, Limit: 100, Remaining: 99}}), "/menu")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestAPIRateLimitFailsOpen(t *testing.T) {
	rec := serveThrough(APIRateLimit(stubLimiter{err: errors.New("redis down")}), "/menu")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRateLimitSkipsProbes(t *testing.T) {
	rec := serveThrough(APIRateLimit(stubLimiter{res: cache.RateResult{}}), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
