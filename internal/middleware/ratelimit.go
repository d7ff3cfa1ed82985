package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket for the credential endpoints.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rateLimitClient
	limit     rate.Limit
	burst     int
	clientTTL time.Duration
	now       func() time.Time
}

// NewRateLimiter creates a limiter with validation and defaults
func NewRateLimiter(cfg *config.RateLimitConfig) (*RateLimiter, error) {
	rps := 1.0
	if cfg != nil && cfg.RequestsPerSecond != "" {
		v, err := strconv.ParseFloat(cfg.RequestsPerSecond, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid rate limit rps '%s'", cfg.RequestsPerSecond)
		}
		rps = v
	}

	burst := 5
	if cfg != nil && cfg.Burst != "" {
		v, err := strconv.Atoi(cfg.Burst)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid rate limit burst '%s'", cfg.Burst)
		}
		burst = v
	}

	clientTTL := 10 * time.Minute
	if cfg != nil && cfg.ClientTTL != "" {
		d, err := time.ParseDuration(cfg.ClientTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit client ttl '%s': %v", cfg.ClientTTL, err)
		}
		clientTTL = d
	}

	return &RateLimiter{
		clients:   make(map[string]*rateLimitClient),
		limit:     rate.Limit(rps),
		burst:     burst,
		clientTTL: clientTTL,
		now:       time.Now,
	}, nil
}

// Allow consumes one token for key.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, found := l.clients[key]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = l.now()

	return client.limiter.Allow()
}

// Cleanup forgets clients idle for longer than the TTL and returns how many were dropped.
func (l *RateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, client := range l.clients {
		if l.now().Sub(client.lastSeen) > l.clientTTL {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// Middleware rejects callers that exhausted their bucket with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			abortWith(c, apperr.RateLimited("Too many requests. Please try again later"))
			return
		}
		c.Next()
	}
}
