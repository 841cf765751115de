package middleware

import (
	"time"

	"go-fleetpay/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger to the request context and
// logs one line per request once the chain returns. It reuses the id set by
// RequestID when that middleware ran first.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString(ContextRequestID)
		if rid == "" {
			rid = c.GetHeader(HeaderRequestID)
		}
		if rid == "" {
			rid = uuid.New().String()
			c.Header(HeaderRequestID, rid)
		}

		reqLogger := logger.With(zap.String("request_id", rid))

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		contextutil.GetLogger(c.Request.Context(), reqLogger).Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
