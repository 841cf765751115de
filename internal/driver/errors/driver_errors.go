package drivererrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrInvalidDriverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid driver id",
		http.StatusBadRequest,
	)
	ErrDriverNotFound = apperror.New(
		apperror.CodeNotFound,
		"driver not found",
		http.StatusNotFound,
	)
	ErrOperatorNotLinked = apperror.New(
		apperror.CodeNotFound,
		"no driver is linked to this operator id",
		http.StatusNotFound,
	)
	ErrDriverHasNoOperator = apperror.New(
		apperror.CodeNotFound,
		"driver has no operator id assigned",
		http.StatusNotFound,
	)
)
