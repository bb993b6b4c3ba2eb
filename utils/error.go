package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies an AppError; the HTTP status follows from it.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindRateLimit  ErrorKind = "rate_limit"
	KindUpstream   ErrorKind = "upstream"
	KindInternal   ErrorKind = "internal"
)

// Issue is one field-level validation problem.
type Issue struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details string  `json:"details,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}

// AppError is an error that knows how it should be rendered to a caller.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details string
	Issues  []Issue
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, status int, message string, err error) *AppError {
	appErr := &AppError{Kind: kind, Status: status, Message: message, Err: err}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

func NewValidationError(message string, issues []Issue) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Issues: issues}
}

func NewAuthError(message string) *AppError {
	return newAppError(KindAuth, http.StatusUnauthorized, message, nil)
}

func NewForbiddenError(message string) *AppError {
	return newAppError(KindForbidden, http.StatusForbidden, message, nil)
}

func NewNotFoundError(message string) *AppError {
	return newAppError(KindNotFound, http.StatusNotFound, message, nil)
}

func NewConflictError(message string) *AppError {
	return newAppError(KindConflict, http.StatusConflict, message, nil)
}

func NewRateLimitError(message string) *AppError {
	return newAppError(KindRateLimit, http.StatusTooManyRequests, message, nil)
}

func NewUpstreamError(message string, err error) *AppError {
	return newAppError(KindUpstream, http.StatusBadGateway, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}

// RespondError renders err with the envelope matching its AppError kind.
// Errors that are not AppErrors are reported as opaque 500s.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		GetLogger().Error("unclassified error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
		return
	}

	if appErr.Status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message, zap.Int("status", appErr.Status), zap.Error(appErr.Err))
	} else {
		GetLogger().Debug(appErr.Message, zap.Int("status", appErr.Status), zap.String("details", appErr.Details))
	}
	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
		Issues:  appErr.Issues,
	})
}
