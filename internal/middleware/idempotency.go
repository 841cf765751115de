package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func idempotencyKeys(path, userID, key string) (cacheKey, lockKey string) {
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", path, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored 2xx response for a repeated POST carrying
// the same Idempotency-Key, and rejects a duplicate that arrives while the
// first one is still running. Redis being unreachable never blocks a request.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := contextutil.GetLogger(ctx, zap.L())
		cacheKey, lockKey := idempotencyKeys(c.FullPath(), c.GetString(ContextUserID), idempKey)

		val, err := rdb.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				c.Header(HeaderReplayed, "true")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			logger.Warn("discarding unreadable idempotency entry", zap.String("key", cacheKey))
		case !errors.Is(err, redis.Nil):
			logger.Warn("idempotency cache unavailable", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Abort(c, ErrRequestInProgress)
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			payload, err := json.Marshal(cachedResponse{
				Status:      status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err == nil {
				if err := rdb.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
					logger.Warn("idempotency store failed", zap.Error(err))
				}
			}
		}

		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			logger.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}
