package middleware

import (
	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			response.Abort(c, ErrMissingAuthContext)
			return
		}

		roleStr, _ := role.(string)
		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     roleStr,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("rbac enforce failed", zap.Error(err))
			response.Abort(c, apperror.ErrInternal)
			return
		}

		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message,
				gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
