// Package errors provides the error taxonomy of the admin API.
// Services return *AppError values so handlers can map them to a status
// code and a client-safe message without leaking internal details.
package errors

import (
	"fmt"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches on error code so wrapped copies of a sentinel still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Forbidden builds the access-denied error for a page/action pair. The
// message names the page and action only.
func Forbidden(page, level string) *AppError {
	return WithMessage(ErrForbidden, fmt.Sprintf("Access denied: %s on %s", level, page))
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Admin user errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrSelfDelete     = &AppError{Code: "SELF_DELETE", Message: "You cannot delete your own account", StatusCode: http.StatusBadRequest}
	ErrLastAdmin      = &AppError{Code: "LAST_ADMIN", Message: "At least one active admin must remain", StatusCode: http.StatusConflict}
)

// Content errors.
var (
	ErrBlogNotFound     = &AppError{Code: "BLOG_NOT_FOUND", Message: "Blog post not found", StatusCode: http.StatusNotFound}
	ErrStaffNotFound    = &AppError{Code: "STAFF_NOT_FOUND", Message: "Staff member not found", StatusCode: http.StatusNotFound}
	ErrSEOPageNotFound  = &AppError{Code: "SEO_PAGE_NOT_FOUND", Message: "SEO page not found", StatusCode: http.StatusNotFound}
	ErrRedirectNotFound = &AppError{Code: "REDIRECT_NOT_FOUND", Message: "Redirect not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSlug    = &AppError{Code: "DUPLICATE_SLUG", Message: "This slug is already in use", StatusCode: http.StatusConflict}
	ErrDuplicatePath    = &AppError{Code: "DUPLICATE_PATH", Message: "This path is already in use", StatusCode: http.StatusConflict}
	ErrRedirectLoop     = &AppError{Code: "REDIRECT_LOOP", Message: "A redirect cannot point to itself", StatusCode: http.StatusBadRequest}
)

// Audit errors.
var (
	ErrAuditEntryNotFound = &AppError{Code: "AUDIT_ENTRY_NOT_FOUND", Message: "Audit entry not found", StatusCode: http.StatusNotFound}
)
