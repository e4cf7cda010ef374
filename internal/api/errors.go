package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is returned for every failed call. Transport and decoding failures
// carry Status 500 and wrap the underlying error.
type Error struct {
	Status  int
	Message string
	Body    map[string]any
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthorized reports a missing or rejected token.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401/403 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// messageFrom picks the human message out of an error body.
func messageFrom(body map[string]any) string {
	for _, key := range []string{"message", "error", "detail"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return "An error occurred"
}
