package httpx

import (
	"net/http"

	"github.com/sundayezeilo/passwordgen/internal/errx"
)

// StatusClientClosedRequest is the non-standard status recorded when the
// client went away before a response was produced.
const StatusClientClosedRequest = 499

// Error codes used in JSON error bodies.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeValidation     = "VALIDATION_ERROR"
	CodeCanceled       = "CANCELED"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Canceled:
		return StatusClientClosedRequest
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Misconfigured, errx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
// Misconfiguration is reported as an internal error; clients cannot fix it.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.Invalid:
		return CodeValidation
	case errx.Canceled:
		return CodeCanceled
	case errx.Unavailable:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
