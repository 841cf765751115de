package payout

import (
	"net/http"

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

func (h *Handler) ComputePayout(c *gin.Context) {
	var req ComputePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ComputePayout(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FromError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
