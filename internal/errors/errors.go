package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for the client-side error taxonomy.
var (
	// ErrUnauthenticated means the backend rejected the credential (401).
	// Any store operation observing it must invalidate the session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is a login rejection; never retried automatically.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSignupRejected is a signup rejection (e.g. duplicate email).
	ErrSignupRejected = errors.New("signup rejected")
	// ErrNotFound means the requested resource does not exist on the backend.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput means the request was rejected before or by the backend
	// for a validation reason.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden means the credential is valid but lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrTransient covers network failures, timeouts and 5xx responses.
	// Recovery is a user-triggered retry; stores retain their last good state.
	ErrTransient = errors.New("transient backend failure")
	// ErrPaymentFailed means the payment provider rejected the charge.
	ErrPaymentFailed = errors.New("payment failed")
)

// AppError is a structured error carrying the server-provided message so the
// caller can surface it verbatim.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthenticated creates an error for a 401 response.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHENTICATED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthenticated,
	}
}

// InvalidCredentials creates a login rejection carrying the server message.
func InvalidCredentials(message string) *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidCredentials,
	}
}

// SignupRejected creates a signup rejection carrying the server message.
func SignupRejected(message string) *AppError {
	return &AppError{
		Code:    "SIGNUP_REJECTED",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrSignupRejected,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Transient creates an error for a network failure or 5xx response.
func Transient(message string, err error) *AppError {
	return &AppError{
		Code:    "TRANSIENT",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %w", ErrTransient, err),
	}
}

// PaymentFailed creates an error for a payment provider rejection.
func PaymentFailed(message string) *AppError {
	return &AppError{
		Code:    "PAYMENT_FAILED",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrPaymentFailed,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Message returns the server-provided message when err carries one, falling
// back to err.Error(). The UI layer displays this verbatim.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// HTTPStatus returns the backend status code associated with the error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrSignupRejected):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrPaymentFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
