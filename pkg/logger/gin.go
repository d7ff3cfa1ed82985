package logger

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GinMiddleware logs one line per request with its request id.
// Server errors log at error level, client errors at warn.
func (l *Logger) GinMiddleware() gin.HandlerFunc {
	httpLogger := l.WithComponent("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = httpLogger.logger.Error()
		case status >= 400:
			event = httpLogger.logger.Warn()
		default:
			event = httpLogger.logger.Info()
		}

		event.
			Str("request_id", requestid.Get(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Msg("request completed")
	}
}
