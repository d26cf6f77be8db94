package model

import (
	"errors"
	"fmt"
	"net/http"
)

// AccountError is the base error for the account domain.
type AccountError struct {
	Code    string // stable machine-readable code (e.g. "ACCOUNT_NOT_FOUND")
	Message string // human-readable message
	Err     error  // underlying error, if any
}

func (e *AccountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AccountError) Unwrap() error {
	return e.Err
}

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	CodeAccountConflict  = "ACCOUNT_CONFLICT" // reserved; idempotent paths absorb conflicts
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// ============================================
// ERROR FACTORY FUNCTIONS
// ============================================

func NewValidationError(msg string, err error) *AccountError {
	return &AccountError{
		Code:    CodeValidation,
		Message: msg,
		Err:     err,
	}
}

func NewAccountNotFound(accountID string) *AccountError {
	return &AccountError{
		Code:    CodeAccountNotFound,
		Message: fmt.Sprintf("Account '%s' not found", accountID),
	}
}

func NewStoreUnavailable(op string, err error) *AccountError {
	return &AccountError{
		Code:    CodeStoreUnavailable,
		Message: fmt.Sprintf("Account store operation failed: %s", op),
		Err:     err,
	}
}

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

func IsValidationError(err error) bool {
	var accErr *AccountError
	return errors.As(err, &accErr) && accErr.Code == CodeValidation
}

func IsAccountNotFound(err error) bool {
	var accErr *AccountError
	return errors.As(err, &accErr) && accErr.Code == CodeAccountNotFound
}

func IsStoreUnavailable(err error) bool {
	var accErr *AccountError
	return errors.As(err, &accErr) && accErr.Code == CodeStoreUnavailable
}

func IsDomainError(err error) bool {
	var accErr *AccountError
	return errors.As(err, &accErr)
}

func GetErrorCode(err error) string {
	var accErr *AccountError
	if errors.As(err, &accErr) {
		return accErr.Code
	}
	return "UNKNOWN_ERROR"
}

func GetErrorMessage(err error) string {
	var accErr *AccountError
	if errors.As(err, &accErr) {
		return accErr.Message
	}
	return err.Error()
}

// GetErrorResponse maps a domain error onto an HTTP status, message and code.
func GetErrorResponse(err error) (statusCode int, message string, code string) {
	switch {
	case err == nil:
		return http.StatusOK, "Success", ""
	case IsValidationError(err):
		return http.StatusBadRequest, GetErrorMessage(err), CodeValidation
	case IsAccountNotFound(err):
		return http.StatusNotFound, GetErrorMessage(err), CodeAccountNotFound
	case IsStoreUnavailable(err):
		return http.StatusServiceUnavailable, GetErrorMessage(err), CodeStoreUnavailable
	case IsDomainError(err):
		accErr := &AccountError{}
		errors.As(err, &accErr)
		if accErr.Code == CodeAccountConflict {
			return http.StatusConflict, accErr.Message, accErr.Code
		}
		return http.StatusInternalServerError, accErr.Message, accErr.Code
	default:
		return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
	}
}
