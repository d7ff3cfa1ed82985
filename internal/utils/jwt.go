package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer    = "moviehub-backend"
	authUserCtxKey = "auth_user"

	// DefaultSecret signs tokens when JWT_SECRET is not set. Never use it in production.
	DefaultSecret = "change-me-in-production"
)

// TokenSettings holds the signing secret and lifetime of issued tokens.
type TokenSettings struct {
	Secret string
	Expiry time.Duration
}

// NewTokenSettings applies defaults to the JWT config.
func NewTokenSettings(cfg *config.JWTConfig) (TokenSettings, error) {
	settings := TokenSettings{
		Secret: DefaultSecret,
		Expiry: time.Hour,
	}
	if cfg == nil {
		return settings, nil
	}

	if cfg.Secret != "" {
		settings.Secret = cfg.Secret
	}
	if cfg.Expiration != "" {
		duration, err := time.ParseDuration(cfg.Expiration)
		if err != nil {
			return TokenSettings{}, fmt.Errorf("invalid JWT expiration '%s': %v", cfg.Expiration, err)
		}
		settings.Expiry = duration
	}
	return settings, nil
}

// UsesDefaultSecret reports whether no secret was configured
func (s TokenSettings) UsesDefaultSecret() bool {
	return s.Secret == DefaultSecret
}

// Claims is the signed token payload: {id, name, role}.
type Claims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthUser is the caller identity extracted from a verified token.
type AuthUser struct {
	ID   uuid.UUID
	Name string
	Role string
}

// GenerateToken signs an HS256 token for the given identity.
func GenerateToken(secret string, expiry time.Duration, user AuthUser) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:   user.ID.String(),
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the identity.
func ParseToken(secret, tokenString string) (*AuthUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Token has expired")
		}
		return nil, apperr.Unauthorized("Invalid token")
	}
	if !token.Valid {
		return nil, apperr.Unauthorized("Invalid token")
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}

	return &AuthUser{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

// SetAuthUser stores the identity on the request context.
func SetAuthUser(c *gin.Context, user *AuthUser) {
	c.Set(authUserCtxKey, user)
}

// GetAuthUser returns the identity stored by the auth middleware, if any.
func GetAuthUser(c *gin.Context) (*AuthUser, bool) {
	v, exists := c.Get(authUserCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*AuthUser)
	return user, ok && user != nil
}

// GetUserID returns the authenticated user's id or an Unauthorized error.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	user, ok := GetAuthUser(c)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("Authentication required")
	}
	return user.ID, nil
}
