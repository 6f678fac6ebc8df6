package middleware

import (
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/config"
	"github.com/gin-gonic/gin"
)

// contentSecurityPolicy allows the embedded contact page and nothing else.
const contentSecurityPolicy = "default-src 'self'; script-src 'self' https://challenges.cloudflare.com; " +
	"frame-src https://challenges.cloudflare.com; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"

// SecurityHeadersMiddleware sets the usual hardening headers. HSTS only in production.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", contentSecurityPolicy)

		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
