package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
	"github.com/smallbiznis/clinicbill/internal/money"
	"github.com/smallbiznis/clinicbill/internal/providers/pdf"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrIllegalTransition):
		return http.StatusConflict, errorPayload{
			Type:    "illegal_transition",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrLifecycleViolation),
		errors.Is(err, pdf.ErrNoPayment):
		return http.StatusConflict, errorPayload{
			Type:    "lifecycle_violation",
			Message: err.Error(),
		}
	case errors.Is(err, invoicedomain.ErrInvoiceNumberConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "invoice number already issued",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, invoicedomain.ErrValidation),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrIndexOutOfRange),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, money.ErrParse):
		return true
	default:
		return false
	}
}

// classifyErrorForLog reports the error type and a stable code for request logs.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if status == http.StatusInternalServerError {
		return payload.Type, "internal"
	}
	if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
		code = vErr.Errors[0].Code
	}
	return payload.Type, code
}
