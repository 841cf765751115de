package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-fleetpay/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		httpErr := apperror.ToHTTP(apperror.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("loading driver: %w", apperror.ErrInvalidInput)

		httpErr := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("connection reset by peer"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.NotContains(t, httpErr.Message, "connection reset")
	})
}

func TestWithCause(t *testing.T) {
	cause := errors.New("pq: deadlock detected")

	err := apperror.WithCause(apperror.ErrNotFound, cause)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPersistence(t *testing.T) {
	cause := errors.New("disk full")

	err := apperror.Persistence(cause, "could not save payslip")

	assert.Equal(t, apperror.CodePersistenceError, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))
}
