// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// Error pairs a sentinel kind with the message shown to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound builds a not-found error with a client-facing message.
func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Invalid builds a validation error with a client-facing message.
func Invalid(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

// StatusOf maps an error to the HTTP status it should produce.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error envelope. Client errors carry their own message;
// anything else is reported under summary with the underlying message echoed.
func RespondError(w http.ResponseWriter, err error, summary string) {
	status := StatusOf(err)
	if status != http.StatusInternalServerError {
		message := err.Error()
		var he *Error
		if errors.As(err, &he) {
			message = he.Message
		}
		JSON(w, status, ErrorBody{Error: message})
		return
	}
	JSON(w, status, ErrorBody{Error: summary, Message: err.Error()})
}
