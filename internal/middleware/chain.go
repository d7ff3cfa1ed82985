// Package middleware holds the gin middleware shared by every feature router.
package middleware

import "github.com/gin-gonic/gin"

// Chain bundles the middleware feature handlers attach to their routes.
type Chain struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	AdminOnly    gin.HandlerFunc
	Cache        gin.HandlerFunc
	RateLimit    gin.HandlerFunc
}

// NewChain wires the standard chain; nil cache or limiter become passthroughs.
func NewChain(jwtSecret string, cache *ResponseCache, limiter *RateLimiter) *Chain {
	chain := &Chain{
		Auth:         Authenticate(jwtSecret),
		OptionalAuth: OptionalAuth(jwtSecret),
		AdminOnly:    RequireRole(RoleAdmin),
		Cache:        Passthrough,
		RateLimit:    Passthrough,
	}
	if cache != nil {
		chain.Cache = cache.Middleware()
	}
	if limiter != nil {
		chain.RateLimit = limiter.Middleware()
	}
	return chain
}

// Passthrough is a no-op middleware.
func Passthrough(c *gin.Context) {
	c.Next()
}
