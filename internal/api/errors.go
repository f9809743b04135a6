package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common API failure statuses
var (
	// ErrNotFound indicates the requested record does not exist (404)
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the request collided with concurrent state (409)
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates a missing or rejected API token (401)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the server throttled the request (429)
	ErrRateLimited = errors.New("rate limited")
)

// Error is a structured failure returned by the windrose API.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("windrose api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("windrose api: %d: %s", e.Status, e.Message)
}

// Is maps the response status onto the package sentinels, so
// errors.Is(err, ErrNotFound) matches any wrapped 404.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// parseError builds an Error from a non-2xx response. The body is
// decoded best-effort; proxies sometimes answer with HTML.
func parseError(status int, data []byte) *Error {
	apiErr := &Error{Status: status}
	if len(data) > 0 {
		_ = json.Unmarshal(data, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited reports whether err is a 429 from the API.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
