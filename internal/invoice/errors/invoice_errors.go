package invoiceerrors

import (
	"net/http"

	"go-fleetpay/internal/shared/apperror"
)

var ErrInvoiceNotFound = apperror.New(
	apperror.CodeNotFound,
	"invoice not found",
	http.StatusNotFound,
)
