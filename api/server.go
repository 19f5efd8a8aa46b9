// Package api exposes the media pipeline over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"clipchat/auth"
	"clipchat/config"
	"clipchat/limiter"
	"clipchat/llm"
	"clipchat/media"
	"clipchat/ops"
)

// Deps carries everything the handlers need. Optional fields may be nil:
// Chat disables /api/chat, Sessions+Google disable login, Limit disables
// rate limiting.
type Deps struct {
	Cfg      *config.Config
	Registry *ops.Registry
	Pipeline *media.Pipeline

	Chat     *llm.Client
	Sessions *auth.Store
	Google   *auth.Google
	Limit    limiter.Limiter
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(d *Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterAuthRoutes(r, d)

	// Multipart requests carry up to ten clips plus subtitle tracks, so the
	// request ceiling is a multiple of the per-file cap.
	api := r.Group("/api", maxBody(d.Cfg.MaxInputBytes*12))
	RegisterInfoRoutes(api, d)

	protected := api.Group("", d.requireSession(), d.rateLimit())
	RegisterProcessRoutes(protected, d)

	premium := protected.Group("", d.requireSubscription())
	RegisterChatRoutes(premium, d)
	return r
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
}
