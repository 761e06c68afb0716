package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitPolicy is a fixed window request budget for one route group
type RateLimitPolicy struct {
	Name   string
	Limit  int64
	Period time.Duration
}

var (
	LoginPolicy         = RateLimitPolicy{Name: "login", Limit: 5, Period: time.Minute}
	AnonymousPolicy     = RateLimitPolicy{Name: "anonymous", Limit: 100, Period: time.Minute}
	AuthenticatedPolicy = RateLimitPolicy{Name: "authenticated", Limit: 500, Period: 5 * time.Minute}
	AdminPolicy         = RateLimitPolicy{Name: "admin", Limit: 1000, Period: time.Minute}
)

// RateLimit counts requests per caller in an in-memory store: the
// authenticated user when JWTAuth ran before it, the client IP otherwise.
// Callers over budget get 429 until the window resets.
func RateLimit(policy RateLimitPolicy) gin.HandlerFunc {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "ratelimit:" + policy.Name,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	instance := limiter.New(store, limiter.Rate{Period: policy.Period, Limit: policy.Limit})

	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(rateLimitKey),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			log.WithFields(logrus.Fields{
				"policy":    policy.Name,
				"key":       rateLimitKey(c),
				"path":      c.Request.URL.Path,
				"limit":     policy.Limit,
				"window_ms": policy.Period.Milliseconds(),
			}).Warn("Rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, models.NewAPIError(models.ErrTooManyRequests,
				"Too many requests, please try again later"))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.WithError(err).WithField("policy", policy.Name).Error("Rate limiter failed")
			c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer,
				"An unexpected error occurred"))
		}),
	)
}

func rateLimitKey(c *gin.Context) string {
	if userID, ok := CurrentUserID(c); ok {
		return "user:" + strconv.FormatUint(uint64(userID), 10)
	}
	return "ip:" + c.ClientIP()
}
