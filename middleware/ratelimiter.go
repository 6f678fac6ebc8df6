package middleware

import (
	"net/http"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware allows maxRequests per minute per client IP. A full
// minute's allowance may be used at once and refills evenly. A limit of zero
// disables it.
func RateLimitMiddleware(maxRequests float64) gin.HandlerFunc {
	if maxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	perSecond := maxRequests / 60.0
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Minute})

	burst := int(maxRequests)
	if burst < 1 {
		burst = 1
	}
	lmt.SetBurst(burst)
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})

	return func(c *gin.Context) {
		httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request)
		if httpError != nil {
			logger.GetLogger().Warnw("Rate limit exceeded",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ContactResponse{
				Success: false,
				Error:   "too many requests, try again later",
			})
			return
		}
		c.Next()
	}
}
