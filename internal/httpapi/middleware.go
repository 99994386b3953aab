package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/internal/principal"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
)

// requestIDMiddleware assigns every request an id (honoring one supplied by
// the caller) and threads it through the context so the scoped logger tags
// all downstream log lines with it.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := principal.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)

		c.Next()
	}
}

// loggingMiddleware emits one structured line per request and feeds the HTTP
// metrics. The route template (not the raw path) labels the metric so
// parameterized routes do not explode cardinality.
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveHTTPRequest(c.Request.Method, route, status, latency)

		log := logger.FromContext(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// principalMiddleware resolves the operator the request acts for. The
// frontend supplies X-User-ID; absent that, the configured default operator
// applies. A malformed header is rejected rather than silently downgraded.
func principalMiddleware(defaultUserID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := defaultUserID
		if raw := c.GetHeader(headerUserID); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: "invalid " + headerUserID + " header"})
				return
			}
			userID = parsed
		}

		ctx := principal.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
