package payslip

import (
	"errors"
	"fmt"
	"io"
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

func (h *Handler) ComputeSingle(c *gin.Context) {
	var req ComputeSinglePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ComputeSingle(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ComputeBatch accepts an empty body as "all invoices", whether or not the
// client declared a length.
func (h *Handler) ComputeBatch(c *gin.Context) {
	var req ComputeBatchPayslipsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ComputeBatch(c.Request.Context(), req)
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

func (h *Handler) DownloadPDF(c *gin.Context) {
	doc, filename, err := h.service.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}
