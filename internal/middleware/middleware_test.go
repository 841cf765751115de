package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"user_id":     c.GetString(ContextUserID),
				"role":        c.GetString(ContextRole),
				"ctx_user_id": contextutil.GetUserID(c.Request.Context()),
			})
		})
		return r
	}

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": "u-1",
			"role":    "finance",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "u-1", body["user_id"])
		assert.Equal(t, "finance", body["role"])
		assert.Equal(t, "u-1", body["ctx_user_id"])
	})

	t.Run("token from cookie", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"user_id": "u-2", "role": "admin"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), ErrTokenNotFound.Message)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other", jwt.MapClaims{"user_id": "u-1"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), ErrInvalidToken.Message)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), ErrTokenExpired.Message)
	})

	t.Run("missing user id", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"role": "finance"})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type stubRBAC struct {
	allowed bool
	err     error
	got     rbac.EnforceRequest
}

func (s *stubRBAC) Enforce(req rbac.EnforceRequest) (bool, error) {
	s.got = req
	return s.allowed, s.err
}

func TestRBACAuthorize(t *testing.T) {
	run := func(svc RBACService, role *string) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/x", func(c *gin.Context) {
			if role != nil {
				c.Set(ContextRole, *role)
			}
			c.Next()
		}, RBACAuthorize(svc, rbac.ResourceCompensation, rbac.ActionCompute), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		return w
	}
	finance := "finance"

	t.Run("allowed", func(t *testing.T) {
		svc := &stubRBAC{allowed: true}
		w := run(svc, &finance)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, rbac.EnforceRequest{Role: "finance", Resource: "compensation", Action: "compute"}, svc.got)
	})

	t.Run("denied", func(t *testing.T) {
		w := run(&stubRBAC{allowed: false}, &finance)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "compensation:compute")
	})

	t.Run("no auth context", func(t *testing.T) {
		w := run(&stubRBAC{allowed: true}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		w := run(&stubRBAC{err: errors.New("boom")}, &finance)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRateLimitByUser(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(ContextUserID, c.GetHeader("X-User"))
		c.Next()
	}, RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	assert.Equal(t, http.StatusOK, do("b"))
	assert.Equal(t, http.StatusOK, do(""))
	assert.Equal(t, http.StatusOK, do(""))
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitByIP(0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:4000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:4001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:4002"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:4000"))
}

func TestRoleMiddleware(t *testing.T) {
	run := func(role string) int {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if role != "" {
				c.Set(ContextRole, role)
			}
			c.Next()
		}, RoleMiddleware("admin"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, run("admin"))
	assert.Equal(t, http.StatusForbidden, run("finance"))
	assert.Equal(t, http.StatusForbidden, run(""))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("propagates header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderRequestID, "rid-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "rid-1", w.Body.String())
		assert.Equal(t, "rid-1", w.Header().Get(HeaderRequestID))
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
	})
}

func TestIdempotency(t *testing.T) {
	const ttl = 24 * time.Hour
	cacheKey, lockKey := idempotencyKeys("/compute", "u-1", "key-1")

	newRouter := func(calls *int, idem gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.POST("/compute", func(c *gin.Context) {
			c.Set(ContextUserID, "u-1")
			c.Next()
		}, idem, func(c *gin.Context) {
			*calls++
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/compute", nil)
		req.Header.Set(HeaderIdempotencyKey, "key-1")
		return req
	}

	t.Run("first request stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		payload, _ := json.Marshal(cachedResponse{
			Status:      http.StatusOK,
			ContentType: "application/json; charset=utf-8",
			Body:        []byte(`{"ok":true}`),
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
		mock.ExpectSet(cacheKey, payload, ttl).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		calls := 0
		w := httptest.NewRecorder()
		newRouter(&calls, Idempotency(rdb, ttl)).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replays cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		payload, _ := json.Marshal(cachedResponse{
			Status:      http.StatusOK,
			ContentType: "application/json; charset=utf-8",
			Body:        []byte(`{"ok":true}`),
		})
		mock.ExpectGet(cacheKey).SetVal(string(payload))

		calls := 0
		w := httptest.NewRecorder()
		newRouter(&calls, Idempotency(rdb, ttl)).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, calls)
		assert.Equal(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, "true", w.Header().Get(HeaderReplayed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(false)

		calls := 0
		w := httptest.NewRecorder()
		newRouter(&calls, Idempotency(rdb, ttl)).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis down passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))

		calls := 0
		w := httptest.NewRecorder()
		newRouter(&calls, Idempotency(rdb, ttl)).ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("no key skips redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		calls := 0
		w := httptest.NewRecorder()
		newRouter(&calls, Idempotency(rdb, ttl)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/compute", nil))

		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
