package response

import (
	"go-fleetpay/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the only error shape clients see.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Success writes the payload as the response body without an envelope; the
// compensation endpoints define their own top-level shapes.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ErrorBody{
		Error:   message,
		Code:    errorCode,
		Details: details,
	})
}

// FromError maps any service error through apperror.ToHTTP and writes it.
func FromError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
}

// Abort writes the error and stops the middleware chain.
func Abort(c *gin.Context, err *apperror.AppError) {
	Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
