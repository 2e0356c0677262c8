package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Error codes.
const (
	CodeNotFound            = "DEP_001"
	CodeConflict            = "DEP_002"
	CodeInvalidInput        = "DEP_003"
	CodeNetwork             = "VER_001"
	CodeVerificationFailure = "VER_002"
	CodeValidation          = "VER_003"
	CodeConfirmationAborted = "WF_001"
	CodeInvalidStep         = "WF_002"
	CodeUnauthorized        = "AUTH_001"
	CodeRateLimited         = "RATE_001"
	CodeInternal            = "SYS_001"
	CodeLockTimeout         = "SYS_002"
)

// GenericVerificationMessage is shown when a provider rejects a claim without
// saying why.
const GenericVerificationMessage = "Verification failed. Please try again."

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool { return HasCode(err, CodeConflict) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// ---- Deposit claims (DEP) ----

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrConflict reports an operation against a claim not in the required state.
func ErrConflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

// ErrReverify is a conflict that a fresh verification resolves.
func ErrReverify(message string, cause error) *AppError {
	return Wrap(CodeConflict, message, http.StatusConflict, cause)
}

func ErrClaimNotPending() *AppError {
	return ErrConflict("Deposit request is no longer pending approval")
}

// Validation returns an input validation error.
func Validation(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

// ---- Verification (VER) ----

// ErrNetwork reports a transport failure talking to a provider or registry.
func ErrNetwork(err error) *AppError {
	return Wrap(CodeNetwork, "Verification provider unreachable", http.StatusBadGateway, err)
}

// ErrVerificationFailure carries the provider's message verbatim, or the
// generic text when the provider gave none.
func ErrVerificationFailure(message string) *AppError {
	if message == "" {
		message = GenericVerificationMessage
	}
	return New(CodeVerificationFailure, message, http.StatusUnprocessableEntity)
}

// ErrValidation reports a provider response that does not match the contract.
func ErrValidation(err error) *AppError {
	return Wrap(CodeValidation, "Malformed verification response", http.StatusBadGateway, err)
}

// ---- Workflow (WF) ----

func ErrConfirmationAborted() *AppError {
	return New(CodeConfirmationAborted, "Interaction was cancelled by the operator", http.StatusConflict)
}

func ErrInvalidStep(err error) *AppError {
	return Wrap(CodeInvalidStep, "Action not allowed at this step", http.StatusConflict, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeUnauthorized, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap(CodeLockTimeout, "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
