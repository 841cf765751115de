package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrTooManyRequests = New(
		CodeRateLimited,
		"Too many requests",
		http.StatusTooManyRequests,
	)
)

// Persistence wraps a storage failure so the original error survives for
// logging while clients only see a generic message.
func Persistence(err error, message string) *AppError {
	return Wrap(err, CodePersistenceError, message, http.StatusInternalServerError)
}

// PersistenceOr passes AppErrors through unchanged and wraps anything else
// as a persistence error.
func PersistenceOr(err error, message string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Persistence(err, message)
}
