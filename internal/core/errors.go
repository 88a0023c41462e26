// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenRevoked      = errors.New("token revoked")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "BAD_REQUEST")
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

// ConflictError reports a duplicate or conflicting write. The marketplace
// clients expect 400 for these rather than 409.
func ConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusBadRequest, "CONFLICT")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusBadRequest,
		"DUPLICATE",
	)
}

func TransitionError(message string) *AppError {
	return NewAppError(
		ErrInvalidTransition,
		message,
		http.StatusBadRequest,
		"INVALID_TRANSITION",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "session expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "session revoked", http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "invalid session", http.StatusUnauthorized, "TOKEN_INVALID")
}

func InternalError(err error) *AppError {
	message := "internal server error"
	if err != nil {
		message = err.Error()
	}
	return NewAppError(err, message, http.StatusInternalServerError, "INTERNAL_ERROR")
}

// ErrorFromDomain maps a wrapped sentinel error to its HTTP form. Errors
// that match no sentinel are reported as 500 with the underlying message.
func ErrorFromDomain(err error, resource string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrInvalidTransition):
		return TransitionError(err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateKey):
		return ConflictError(err.Error())
	case errors.Is(err, ErrInvalidInput):
		return BadRequestError(err.Error())
	default:
		return InternalError(err)
	}
}
