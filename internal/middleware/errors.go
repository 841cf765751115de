package middleware

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var (
	ErrTokenNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrMissingAuthContext = apperror.New(
		apperror.CodeUnauthorized,
		"missing auth context",
		http.StatusUnauthorized,
	)
	ErrRequestInProgress = apperror.New(
		apperror.CodeConflict,
		"A request with this Idempotency-Key is still being processed",
		http.StatusConflict,
	)
)
