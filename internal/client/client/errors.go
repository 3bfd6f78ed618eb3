package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("invalid request")
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("daily quota exceeded")
	ErrRateLimited   = errors.New("rate limited")
	ErrUpstream      = errors.New("voice provider unavailable")
	ErrServer        = errors.New("server error")
)

// quotaMarker prefixes the server's quota message; other 429s are upstream
// rate limits.
const quotaMarker = "Daily character limit reached"

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Unwrap maps the status code onto a sentinel error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		if strings.HasPrefix(e.Message, quotaMarker) {
			return ErrQuotaExceeded
		}
		return ErrRateLimited
	case http.StatusBadGateway:
		return ErrUpstream
	default:
		return ErrServer
	}
}
