package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/ramanbajpai7/AcctAI/pkg/logger"
	"github.com/ramanbajpai7/AcctAI/pkg/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.GetLogger().WithFields(map[string]interface{}{
					"error": err,
					"path":  c.Request.URL.Path,
					"stack": string(debug.Stack()),
				}).Error("Panic recovered")
				response.InternalError(c, "Internal server error", "An unexpected error occurred")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler turns errors attached to the gin context into a JSON
// error response when the handler has not written one itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			logger.GetLogger().WithError(err.Err).Error("Request error")

			if c.Writer.Status() == http.StatusOK {
				response.InternalError(c, "Request failed", err.Error())
			}
		}
	}
}
