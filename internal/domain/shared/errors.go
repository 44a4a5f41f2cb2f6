package shared

import "fmt"

// Error codes shared by every layer. HTTP and CLI adapters map on these.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeConnection          = "CONNECTION_ERROR"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidState        = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Field names the offending input for validation errors
	Field string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, shared.ErrNotFound) matches any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: reason,
		Field:   field,
	}
}

// NewNotFoundError creates a not-found error naming the missing entity
func NewNotFoundError(entity string, id int64) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %d not found", entity, id))
}

// NewConstraintViolation wraps the store's own message so callers can show it verbatim
func NewConstraintViolation(message string) *DomainError {
	return NewDomainError(CodeConstraintViolation, message)
}

// NewConnectionError reports that the store could not serve the operation
func NewConnectionError(message string) *DomainError {
	return NewDomainError(CodeConnection, message)
}

// NewForbiddenError creates a permission error
func NewForbiddenError(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

// Common domain errors
var (
	ErrValidation          = NewDomainError(CodeValidation, "Invalid input provided")
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrConstraintViolation = NewDomainError(CodeConstraintViolation, "Operation violates a store constraint")
	ErrConnection          = NewDomainError(CodeConnection, "Store is unavailable")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Invalid username or password")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)
