// Package dto holds the JSON request and response shapes of the HTTP API and
// the helpers that write them.
package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes the error.
type ErrorDetail struct {
	// Code is machine-readable, e.g. "NOT_FOUND".
	Code string `json:"code"`

	// Message is for people.
	Message string `json:"message"`

	// Details holds per-field messages for validation failures.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeBadRequest  = "BAD_REQUEST"
	ErrorCodeTooLarge    = "PAYLOAD_TOO_LARGE"
)

// NewErrorResponse creates an error envelope.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// MapError converts an error to an envelope. Domain errors keep their message;
// anything else becomes a generic internal error.
func MapError(err error) *ErrorResponse {
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &validation):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())
		if validation.Field != "" {
			resp.Error.Details = map[string]string{validation.Field: validation.Message}
		}

		return resp
	case domain.IsNotFound(err):
		return NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsConflict(err):
		return NewErrorResponse(ErrorCodeConflict, err.Error())
	case domain.IsUnavailable(err):
		return NewErrorResponse(ErrorCodeUnavailable, err.Error())
	default:
		return NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// HandleError writes err as an error response and aborts the chain. Internal
// errors are logged with the original cause.
func HandleError(c *gin.Context, err error) {
	resp := MapError(err)

	if resp.Error.Code == ErrorCodeInternal {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "internal error",
			slog.Any("error", err),
			slog.String("path", c.Request.URL.Path),
		)
	}

	_ = c.Error(err)

	abort(c, resp)
}

// AbortWithCode writes an error response with a fixed code and aborts.
func AbortWithCode(c *gin.Context, code, message string) {
	abort(c, NewErrorResponse(code, message))
}

// AbortWithValidation writes a 400 with per-field messages and aborts.
func AbortWithValidation(c *gin.Context, message string, details map[string]string) {
	resp := NewErrorResponse(ErrorCodeValidation, message)
	resp.Error.Details = details

	abort(c, resp)
}

func abort(c *gin.Context, resp *ErrorResponse) {
	resp.TraceID = GetTraceID(c)
	c.AbortWithStatusJSON(HTTPStatusFromCode(resp.Error.Code), resp)
}

// GetTraceID returns the active trace ID, or "".
func GetTraceID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}

	sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}

	return sc.TraceID().String()
}
