package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors with the same code and message so that wrapped copies of
// the sentinels below compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return New(base.Code, base.Message, err)
}

// ErrInternalServer is rendered for errors that carry no status of their own.
var ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)

// Database error types
var (
	ErrDatabaseConnection = New(http.StatusServiceUnavailable, "Database connection error", nil)
	ErrDatabaseQuery      = New(http.StatusInternalServerError, "Database query error", nil)
)

// Validation error types
var (
	ErrInvalidID   = New(http.StatusBadRequest, "Invalid document id", nil)
	ErrInvalidBody = New(http.StatusBadRequest, "Invalid request body", nil)
	ErrEmptyUpdate = New(http.StatusBadRequest, "No update fields provided", nil)
)

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *Error
		if !errors.As(err, &appErr) {
			appErr = Wrap(ErrInternalServer, err)
		}

		c.JSON(appErr.Code, appErr)
		c.Abort()
	}
}
