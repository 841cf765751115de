package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

// ToHTTP resolves any error to the status/code pair written to clients.
// Errors that are not AppErrors are reported as internal without leaking
// their text.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
