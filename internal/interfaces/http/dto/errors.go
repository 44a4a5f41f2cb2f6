package dto

import (
	"errors"
	"net/http"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
)

// Codes used only by the HTTP layer
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeTooLarge   = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:              http.StatusBadRequest,
	shared.CodeUnauthorized:        http.StatusUnauthorized,
	shared.CodeForbidden:           http.StatusForbidden,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeConstraintViolation: http.StatusConflict,
	ErrCodeTooLarge:                http.StatusRequestEntityTooLarge,
	shared.CodeInvalidState:        http.StatusUnprocessableEntity,
	finance.CodeAlreadyPaid:        http.StatusUnprocessableEntity,
	finance.CodeDuplicatePayment:   http.StatusUnprocessableEntity,
	shared.CodeConnection:          http.StatusServiceUnavailable,
	ErrCodeInternal:                http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts err into a status and error body. Domain errors keep
// their code and message; anything else becomes a generic 500.
func FromError(err error, requestID string) (int, Response) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		resp := NewErrorResponse(domainErr.Code, domainErr.Message, requestID)
		resp.Error.Field = domainErr.Field
		return GetHTTPStatus(domainErr.Code), resp
	}
	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "An unexpected error occurred", requestID)
}
