package handler

import (
	"context"
	"net/http"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/metrics"
	"github.com/annazecevic/music-service/middleware"
	"github.com/annazecevic/music-service/service"
	"github.com/gin-gonic/gin"
)

// Guards are the auth middlewares handlers attach per route.
type Guards struct {
	Required gin.HandlerFunc
	Optional gin.HandlerFunc
	Admin    gin.HandlerFunc
}

// NewGuards wires the admin guard to the stored role so a demotion applies
// to tokens that are still valid.
func NewGuards(jwtSecret string, users service.UserService) Guards {
	return Guards{
		Required: middleware.AuthMiddleware(jwtSecret),
		Optional: middleware.OptionalAuth(jwtSecret),
		Admin: middleware.AdminOnly(func(ctx context.Context, userID string) (domain.Role, error) {
			user, err := users.GetByID(ctx, userID)
			if err != nil {
				return "", err
			}
			return user.Role, nil
		}),
	}
}

type routeRegistrar interface {
	RegisterRoutes(api *gin.RouterGroup, g Guards)
}

// NewRouter assembles the engine: ops endpoints at the root, everything else
// under /api/v1 behind the rate limiter.
func NewRouter(g Guards, limiter *middleware.RateLimiter, handlers ...routeRegistrar) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), middleware.SecurityHeaders(), middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	for _, h := range handlers {
		h.RegisterRoutes(api, g)
	}
	return router
}
