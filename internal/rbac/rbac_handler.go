package rbac

import (
	"net/http"
	"strings"

	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce lets the access-control collaborator check a decision without
// calling a protected endpoint.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	req.Role = strings.TrimSpace(req.Role)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed})
}
