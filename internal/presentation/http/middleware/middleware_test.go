package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/domain/widget"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func attributionRouter(seen *widget.Params) *gin.Engine {
	r := gin.New()
	r.Use(AttributionMiddleware("test-secret", time.Hour, logging.NewNopLogger()))
	r.GET("/", func(c *gin.Context) {
		*seen = SessionParams(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAttributionMiddleware_FirstCaptureWins(t *testing.T) {
	var seen widget.Params
	r := attributionRouter(&seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?utm_source=newsletter&utm_campaign=spring", nil))
	assert.Equal(t, "newsletter", seen[widget.UTMSource])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == AttributionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/?utm_source=ads", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "newsletter", seen[widget.UTMSource])
	assert.Equal(t, "spring", seen[widget.UTMCampaign])
	assert.Empty(t, w.Result().Cookies())
}

func TestAttributionMiddleware_TamperedCookieIgnored(t *testing.T) {
	var seen widget.Params
	r := attributionRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AttributionCookie, Value: "not-a-token"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, seen.Empty())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2, logging.NewNopLogger())
	r := gin.New()
	r.POST("/api/contact", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	assert.Equal(t, 0, limiter.Prune(time.Hour))
	assert.Equal(t, 1, limiter.Prune(0))
}

func TestMetricsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
