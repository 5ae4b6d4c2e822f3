package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const validationCodeKey = "validation_code"

// validationCode sets the envelope code used for rejected input on a
// route group.
func validationCode(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(validationCodeKey, code)
		c.Next()
	}
}

// requestLogger logs every request and records its latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveRequest(c.Request.Method, route, status, elapsed)

		level := slog.LevelDebug
		if status >= 500 {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
		)
	}
}
