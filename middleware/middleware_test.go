package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"civic-feedback-server/utils"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandlerRendersAppErrors(t *testing.T) {
	r := newEngine(ErrorHandlerMiddleware())
	r.GET("/bad", func(c *gin.Context) {
		_ = c.Error(utils.BadRequest(errors.New("unknown sentiment: \"angry\"")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"unknown sentiment: \"angry\""}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	r := newEngine(RateLimitMiddleware(rl))
	r.POST("/api/v1/feedback", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/api/v1/official/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/feedback", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/feedback", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// other routes have their own bucket
	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/official/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, rl.Size())
}

func TestLimitFor(t *testing.T) {
	lim, burst := limitFor(http.MethodGet, "/api/v1/official/ws")
	assert.Equal(t, rate.Every(time.Second), lim)
	assert.Equal(t, 5, burst)

	_, burst = limitFor(http.MethodGet, "/api/v1/official/stats")
	assert.Equal(t, 20, burst)

	lim, burst = limitFor(http.MethodPost, "/api/v1/feedback/media")
	assert.Equal(t, rate.Every(12*time.Second), lim)
	assert.Equal(t, 5, burst)

	_, burst = limitFor(http.MethodGet, "/health")
	assert.Equal(t, 30, burst)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	rl.GetLimiterWithConfig("a", rate.Inf, 1)
	rl.GetLimiterWithConfig("b", rate.Inf, 1)

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, rl.Cleanup(time.Millisecond))
	assert.Equal(t, 0, rl.Size())
}

func TestInputValidation(t *testing.T) {
	r := newEngine(InputValidationMiddleware())
	r.POST("/api/v1/feedback", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.Equal(t, http.StatusCreated, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = 11 * 1024 * 1024
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	r := newEngine(SecurityHeadersMiddleware(), CORSMiddleware([]string{"https://dashboard.example.com"}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
