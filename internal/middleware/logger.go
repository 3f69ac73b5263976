package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const loggerKey = "zapLogger"

// RequestLogger attaches a request scoped logger and logs every completed request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestLogger := logger.With(
			zap.String("correlation_id", GetCorrelationID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set(loggerKey, requestLogger)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		if status >= 500 {
			level = zapcore.ErrorLevel
		}
		requestLogger.Log(level, "request completed",
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// LoggerFromContext returns the logger set by RequestLogger, or the global zap logger.
func LoggerFromContext(c *gin.Context) *zap.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if logger, ok := value.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
