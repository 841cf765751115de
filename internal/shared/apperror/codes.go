package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"

	// Compensation-specific. Status codes still follow the generic kind
	// (404 and 409), the code lets clients tell them apart.
	CodeRateUnavailable = "RATE_UNAVAILABLE"
	CodeAlreadyPaid     = "STATEMENT_ALREADY_PAID"

	// Server errors (5xx)
	CodeInternalError    = "INTERNAL_ERROR"
	CodePersistenceError = "PERSISTENCE_ERROR"
)
