package errors

import (
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

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of e carrying the underlying cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Domain error types. Messages stay generic: internal detail belongs in
// server logs, never in the response body.
var (
	// ErrUpstreamUnavailable covers a failed exchange-rates fetch.
	ErrUpstreamUnavailable = New(http.StatusBadGateway, "Upstream service unavailable", nil)
	// ErrConfiguration marks an operator-fixable misconfiguration, e.g. a
	// missing merchant secret. It is never attributed to the caller.
	ErrConfiguration = New(http.StatusInternalServerError, "Service misconfigured", nil)
	// ErrSignatureMismatch rejects an unverified payment notification.
	ErrSignatureMismatch = New(http.StatusBadRequest, "Invalid signature", nil)
)

// ErrorMiddleware converts errors attached to the gin context into JSON
// responses with the right status code.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = ErrInternalServer.Wrap(err)
			}

			c.JSON(appErr.Code, gin.H{"code": appErr.Code, "message": appErr.Message})
			c.Abort()
		}
	}
}
