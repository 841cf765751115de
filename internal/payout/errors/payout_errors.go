package payouterrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrInvalidPayStatementID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid pay statement id",
		http.StatusBadRequest,
	)
	ErrPayStatementNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay statement not found",
		http.StatusNotFound,
	)
	ErrStatementAlreadyPaid = apperror.New(
		apperror.CodeAlreadyPaid,
		"pay statement for this period is already paid and cannot be changed",
		http.StatusConflict,
	)
)
