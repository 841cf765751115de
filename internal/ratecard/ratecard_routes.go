package ratecard

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
) {
	rates := r.Group("/rate-schedules")
	rates.Use(auth)
	{
		rates.POST("",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRateSchedule, rbac.ActionCreate),
			handler.Create,
		)
		rates.GET("/:operator_id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRateSchedule, rbac.ActionRead),
			handler.ListByOperator,
		)
		rates.GET("/:operator_id/resolve",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRateSchedule, rbac.ActionRead),
			handler.Resolve,
		)
	}
}
