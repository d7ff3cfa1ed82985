package middleware

import (
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

const RoleAdmin = "admin"

// Authenticate requires a valid bearer token and stores the caller on the context.
// Identity comes from the token claims only; no database lookup.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWith(c, err)
			return
		}

		user, err := utils.ParseToken(secret, token)
		if err != nil {
			abortWith(c, err)
			return
		}

		utils.SetAuthUser(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// otherwise continues anonymously.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c.GetHeader("Authorization")); err == nil {
			if user, err := utils.ParseToken(secret, token); err == nil {
				utils.SetAuthUser(c, user)
			}
		}
		c.Next()
	}
}

// RequireRole lets the request through only when the token role is allowed.
// It must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		user, ok := utils.GetAuthUser(c)
		if !ok {
			abortWith(c, apperr.Unauthorized("Authentication required"))
			return
		}
		if !allowed[user.Role] {
			abortWith(c, apperr.Forbidden("Access denied. Insufficient permissions"))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Unauthorized("Access denied. No token provided")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Unauthorized("Invalid authorization header format")
	}

	return strings.TrimSpace(parts[1]), nil
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
