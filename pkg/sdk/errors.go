package taggate

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *APIError. Use errors.Is() to check.
var (
	ErrUnauthorized    = errors.New("taggate: unauthorized")
	ErrInvalidRequest  = errors.New("taggate: invalid request")
	ErrRequestTooLarge = errors.New("taggate: request too large")
	ErrUnavailable     = errors.New("taggate: tagging unavailable")
)

// APIError is a non-2xx reply from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("taggate: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("taggate: HTTP %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrRequestTooLarge:
		return e.StatusCode == http.StatusRequestEntityTooLarge
	case ErrUnavailable:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}
