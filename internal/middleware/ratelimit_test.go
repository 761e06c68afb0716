package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(policy RateLimitPolicy, before ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append(before, RateLimit(policy), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/menu", handlers...)
	return router
}

func requestFrom(router *gin.Engine, remoteAddr string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.RemoteAddr = remoteAddr
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerClientIP(t *testing.T) {
	router := rateLimitedRouter(RateLimitPolicy{Name: "test-ip", Limit: 2, Period: time.Minute})

	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:5000", "").Code)
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:5001", "").Code)

	w := requestFrom(router, "10.0.0.1:5002", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, models.ErrTooManyRequests, apiErr.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// another caller has its own window
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.2:5000", "").Code)
}

func TestRateLimitPerUser(t *testing.T) {
	setUser := func(c *gin.Context) {
		switch c.GetHeader("X-Test-User") {
		case "7":
			c.Set(ContextUserID, uint(7))
		case "8":
			c.Set(ContextUserID, uint(8))
		}
		c.Next()
	}
	router := rateLimitedRouter(RateLimitPolicy{Name: "test-user", Limit: 1, Period: time.Minute}, setUser)

	// same address, different users
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:5000", "7").Code)
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(router, "10.0.0.1:5000", "7").Code)
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:5000", "8").Code)
}

func TestRateLimitPolicies(t *testing.T) {
	assert.Equal(t, int64(5), LoginPolicy.Limit)
	assert.Equal(t, time.Minute, LoginPolicy.Period)
	assert.Equal(t, int64(100), AnonymousPolicy.Limit)
	assert.Equal(t, 5*time.Minute, AuthenticatedPolicy.Period)
	assert.Equal(t, int64(1000), AdminPolicy.Limit)
}
