package payout

import (
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	auth gin.HandlerFunc,
	idempotency gin.HandlerFunc,
) {
	compensation := r.Group("/compensation")
	compensation.Use(auth)
	{
		compensation.POST("/compute-payout",
			middleware.RateLimitByUser(1, 5),
			idempotency,
			middleware.RBACAuthorize(rbacService, rbac.ResourceCompensation, rbac.ActionCompute),
			handler.ComputePayout,
		)
	}

	statements := r.Group("/pay-statements")
	statements.Use(auth)
	{
		statements.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayStatement, rbac.ActionRead),
			handler.GetByID,
		)
		statements.POST("/:id/mark-paid",
			middleware.RateLimitByUser(0.5, 2),
			idempotency,
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayStatement, rbac.ActionUpdate),
			handler.MarkPaid,
		)
	}
}
