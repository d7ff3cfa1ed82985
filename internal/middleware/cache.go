package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// captureWriter copies the response body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

type cacheEntry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// ResponseCache stores anonymous GET responses in Redis and drops them all
// after any successful write.
type ResponseCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *logger.Logger
}

// NewResponseCache creates a cache with validation and defaults.
// A nil client or CACHE_ENABLED=false yields a cache that passes everything through.
func NewResponseCache(cfg *config.CacheConfig, rdb *redis.Client, log *logger.Logger) (*ResponseCache, error) {
	enabled := true
	if cfg != nil && cfg.Enabled != "" {
		v, err := strconv.ParseBool(cfg.Enabled)
		if err != nil {
			return nil, fmt.Errorf("invalid cache enabled flag '%s': %v", cfg.Enabled, err)
		}
		enabled = v
	}

	ttl := time.Minute
	if cfg != nil && cfg.TTL != "" {
		d, err := time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid cache ttl '%s': %v", cfg.TTL, err)
		}
		ttl = d
	}

	prefix := "moviehub:cache"
	if cfg != nil && cfg.Prefix != "" {
		prefix = cfg.Prefix
	}

	if !enabled {
		rdb = nil
	}

	return &ResponseCache{
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithComponent("response-cache"),
	}, nil
}

// Enabled reports whether responses are actually cached.
func (rc *ResponseCache) Enabled() bool {
	return rc != nil && rc.rdb != nil
}

// Key hashes the request identity. Host and scheme are part of it because
// responses embed absolute file URLs.
func (rc *ResponseCache) Key(c *gin.Context) string {
	identity := c.Request.Method + "|" + utils.BaseURL(c) + "|" + c.Request.URL.Path + "|" + c.Request.URL.RawQuery
	sum := sha1.Sum([]byte(identity))
	return fmt.Sprintf("%s:%x", rc.prefix, sum[:])
}

// Middleware serves cached GET responses for requests without credentials.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rc.Enabled() || c.Request.Method != http.MethodGet || c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rc.Key(c)

		bs, err := rc.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var entry cacheEntry
			if json.Unmarshal(bs, &entry) == nil {
				c.Header("X-Cache", "HIT")
				c.Data(entry.Status, entry.ContentType, entry.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			rc.logger.Warn("Cache read failed for " + c.Request.URL.Path + ": " + err.Error())
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if len(c.Errors) > 0 || !cw.Written() || cw.Status() != http.StatusOK {
			return
		}

		payload, err := json.Marshal(cacheEntry{
			Status:      cw.Status(),
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rc.rdb.Set(context.WithoutCancel(ctx), key, payload, rc.ttl).Err(); err != nil {
			rc.logger.Warn("Cache write failed for " + c.Request.URL.Path + ": " + err.Error())
		}
	}
}

// Invalidate flushes the cache after every successful non-GET request.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !rc.Enabled() {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		if err := rc.Flush(context.WithoutCancel(c.Request.Context())); err != nil {
			rc.logger.Warn("Cache invalidation failed: " + err.Error())
		}
	}
}

// Flush deletes every key under the cache prefix.
func (rc *ResponseCache) Flush(ctx context.Context) error {
	if !rc.Enabled() {
		return nil
	}

	var keys []string
	iter := rc.rdb.Scan(ctx, 0, rc.prefix+":*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	for start := 0; start < len(keys); start += 500 {
		end := min(start+500, len(keys))
		if err := rc.rdb.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}
	return nil
}
