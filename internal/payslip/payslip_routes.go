package payslip

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
		compensation.POST("/compute-single-payslip",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceCompensation, rbac.ActionCompute),
			handler.ComputeSingle,
		)
		compensation.POST("/compute-batch-payslips",
			middleware.RateLimitByUser(0.2, 1),
			idempotency,
			middleware.RBACAuthorize(rbacService, rbac.ResourceCompensation, rbac.ActionCompute),
			handler.ComputeBatch,
		)
	}

	payslips := r.Group("/payslips")
	payslips.Use(auth)
	{
		payslips.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead),
			handler.GetByID,
		)
		payslips.GET("/:id/pdf",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayslip, rbac.ActionRead),
			handler.DownloadPDF,
		)
	}
}
