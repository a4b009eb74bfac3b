package handlers

import (
	"net/http"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

func LoggingMiddleware(parentLogger *logging.Logger) gin.HandlerFunc {
	logger := parentLogger.WithPrefix("HTTP")

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		// панель шлет /send и /telemetry много раз в секунду
		logger.Debug("Request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.Request.RemoteAddr,
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if status >= http.StatusBadRequest {
			logger.Warn("Request completed", fields...)
			return
		}
		logger.Debug("Request completed", fields...)
	}
}

// CORSMiddleware разрешает запросы с любого origin
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
