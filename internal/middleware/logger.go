package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ramanbajpai7/AcctAI/pkg/logger"
)

// RequestIDKey is where the per-request ID lives in the gin context.
const RequestIDKey = "request_id"

// Logger tags every request with an ID and logs the outcome. Health
// probes are skipped to keep the log readable.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		logger.GetLogger().WithFields(map[string]interface{}{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"ip":         c.ClientIP(),
			"latency":    latency.Milliseconds(),
			"errors":     c.Errors.String(),
		}).Info("Request processed")
	}
}
