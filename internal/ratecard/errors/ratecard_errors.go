package ratecarderrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	// ErrRateUnavailable means no schedule row (and no enabled fallback)
	// covers the requested date. Callers decide whether to skip or fail;
	// it is never turned into a zero rate.
	ErrRateUnavailable = apperror.New(
		apperror.CodeRateUnavailable,
		"no pay rate is effective for this operator on the requested date",
		http.StatusNotFound,
	)
	ErrRateEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a rate for this operator and effective date already exists",
		http.StatusConflict,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"rate must be a positive amount",
		http.StatusBadRequest,
	)
	ErrOperatorRequired = apperror.New(
		apperror.CodeInvalidInput,
		"operator id is required",
		http.StatusBadRequest,
	)
)
