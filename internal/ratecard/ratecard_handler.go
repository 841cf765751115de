package ratecard

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateRateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) ListByOperator(c *gin.Context) {
	resp, err := h.service.ListByOperator(c.Request.Context(), c.Param("operator_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Resolve(c *gin.Context) {
	var q ResolveRateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Resolve(c.Request.Context(), c.Param("operator_id"), q.AsOf)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}
