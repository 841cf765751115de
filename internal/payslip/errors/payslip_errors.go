package paysliperrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
)
