// Package router wires the gin engine for the relay.
package router

import (
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/config"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/handlers"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/middleware"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxContactBody = 64 << 10 // 64 KiB

type Dependencies struct {
	Config   *config.Config
	Contact  *handlers.ContactHandler
	Gatherer prometheus.Gatherer
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.DomainWhitelistMiddleware(deps.Config.Server.AllowedHosts))

	web.Register(r, deps.Config.Relay.TurnstileSiteKey)
	r.GET("/healthz", handlers.HealthHandler)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.POST("/contact",
		middleware.BodyLimitMiddleware(maxContactBody),
		middleware.RateLimitMiddleware(deps.Config.Relay.RateLimitPerMinute),
		deps.Contact.HandlePost,
	)

	return r
}
