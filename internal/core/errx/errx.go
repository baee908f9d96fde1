package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	// SystemErrorMessage is the user-facing fallback when internal errors occur.
	SystemErrorMessage   = "internal server error"
	NotFoundMessage      = "resource not found"
	ValidationMessage    = "validation failed"
	ConflictMessage      = "resource conflict"
	UnauthorizedMessage  = "unauthorized"
	ForbiddenMessage     = "forbidden"
	DatabaseErrorMessage = "database operation failed"
	RedisErrorMessage    = "redis operation failed"
	RedisNotFoundMessage = "redis key not found"
	UpstreamErrorMessage = "upstream service failed"
)

// AppError wraps an underlying error with an HTTP status and a safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches the underlying error.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

func NotFound(what string) *AppError {
	return New(nil, http.StatusNotFound, what+" not found")
}

func Conflict(message string) *AppError {
	return New(nil, http.StatusConflict, message)
}

func BadRequest(message string) *AppError {
	return New(nil, http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = UnauthorizedMessage
	}
	return New(nil, http.StatusUnauthorized, message)
}

func Forbidden() *AppError {
	return New(nil, http.StatusForbidden, ForbiddenMessage)
}

// Upstream marks failures of a remote dependency (storage, telegram).
func Upstream(err error) *AppError {
	return New(err, http.StatusBadGateway, UpstreamErrorMessage)
}

// StatusOf extracts the HTTP status of err, 500 when it is not an AppError.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// Fields collects per-field validation messages.
type Fields map[string]string

func (f Fields) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns nil when no field failed.
func (f Fields) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: f.message(),
		Fields:  map[string]string(f),
	}
}

func (f Fields) message() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+f[k])
	}
	return ValidationMessage + ": " + strings.Join(parts, "; ")
}

// Validation is a shortcut for a single failing field.
func Validation(field, msg string) error {
	return Fields{field: msg}.Err()
}
