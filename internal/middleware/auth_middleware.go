package middleware

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthMiddleware verifies the HS256 token issued by the access-control
// collaborator and exposes its user_id and role claims.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Abort(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			response.Abort(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Abort(c, ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Abort(c, apperror.New(ErrInvalidToken.Code, "User ID not found in token", ErrInvalidToken.HTTPStatus))
			return
		}

		role, _ := claims["role"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)

		ctx := c.Request.Context()
		logger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", userID))
		ctx = contextutil.WithUserID(ctx, userID)
		ctx = contextutil.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware admits only the listed roles, for routes that sit outside
// the casbin policy.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" || !slices.Contains(allowedRoles, role) {
			response.Abort(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}
