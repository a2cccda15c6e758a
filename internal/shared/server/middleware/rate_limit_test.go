package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitAppliesOnlyToConfiguredGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			if strings.HasPrefix(c.FullPath(), "/api/v1/ai/") {
				return "AI"
			}
			return ""
		},
		Limiter: limiter,
		Rules:   map[string]RateLimitRule{"AI": {Rate: 0.5, Burst: 2}},
	}))
	r.POST("/api/v1/ai/summary", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PUT("/api/v1/resumes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/ai/summary").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/ai/summary").Code)

	limited := do(http.MethodPost, "/api/v1/ai/summary")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "2", limited.Header().Get("Retry-After"))

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body.Error.Code)
	assert.EqualValues(t, 2000, body.Error.Details["retryAfterMs"])

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(http.MethodPut, "/api/v1/resumes/r-1").Code)
	}

	now = now.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/ai/summary").Code)
}

func TestRateLimiterRefillIsCapped(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	ok, _ := l.Allow("k", rule)
	require.True(t, ok)
	ok, wait := l.Allow("k", rule)
	require.False(t, ok)
	assert.Equal(t, time.Second, wait)

	now = now.Add(time.Hour)
	ok, _ = l.Allow("k", rule)
	assert.True(t, ok)
	ok, _ = l.Allow("k", rule)
	assert.False(t, ok)
}
