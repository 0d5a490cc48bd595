package routes

import (
	"fmt"

	"killprocess/internal/config"
	"killprocess/internal/controllers"
	"killprocess/internal/logging"
	"killprocess/internal/middleware"
	"killprocess/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies carries what the HTTP layer needs.
type Dependencies struct {
	Service *services.ProcessService
	Metrics *services.Metrics
	Logger  *logging.Logger
	Server  config.ServerConfig
}

// NewRouter builds the HTTP mode engine. Forwarding headers are honored
// only from the configured trusted proxies; with none, the client IP is
// always the peer address.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Logger),
		middleware.SecurityHeadersMiddleware(),
		middleware.IPWhitelistMiddleware(middleware.NewIPWhitelist(deps.Server.AllowedIPs), deps.Logger),
		middleware.RateLimitMiddleware(middleware.NewRateLimiter(deps.Server.RateLimitRPS, deps.Server.RateBurst), deps.Logger),
	)

	RegisterProcessRoutes(r, controllers.NewProcessController(deps.Service, deps.Logger))
	RegisterMetricsRoutes(r, deps.Metrics)
	return r, nil
}
