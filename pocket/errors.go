package pocket

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Common errors
var (
	// ErrMissingConsumerKey indicates a client was built without a consumer key
	ErrMissingConsumerKey = errors.New("pocket: consumer key is required")
	// ErrMissingAccessToken indicates a client was built without an access token
	ErrMissingAccessToken = errors.New("pocket: access token is required")
	// ErrInvalidRequest indicates the request was rejected as malformed (400)
	ErrInvalidRequest = errors.New("pocket: invalid request")
	// ErrUnauthorized indicates a problem authenticating the user (401)
	ErrUnauthorized = errors.New("pocket: unauthorized")
	// ErrAccessDenied indicates the user was authenticated but denied (403)
	ErrAccessDenied = errors.New("pocket: access denied")
	// ErrRateLimited indicates a 403 with an exhausted rate-limit window
	ErrRateLimited = errors.New("pocket: rate limit exceeded")
	// ErrServerMaintenance indicates the service is down for maintenance (503)
	ErrServerMaintenance = errors.New("pocket: server down for maintenance")
)

// Response headers carrying error and rate-limit detail.
const (
	headerError     = "X-Error"
	headerErrorCode = "X-Error-Code"

	headerUserLimit     = "X-Limit-User-Limit"
	headerUserRemaining = "X-Limit-User-Remaining"
	headerUserReset     = "X-Limit-User-Reset"
	headerKeyLimit      = "X-Limit-Key-Limit"
	headerKeyRemaining  = "X-Limit-Key-Remaining"
	headerKeyReset      = "X-Limit-Key-Reset"
)

// APIError is a non-2xx response from the Pocket API. Pocket reports the
// real failure through response headers rather than the body: Code holds
// the numeric X-Error-Code and Message the X-Error text. When the headers
// are absent Code is 0 and Message falls back to the generic HTTP status
// text. Body preserves the raw response body verbatim for diagnostics.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Body       string
	RateLimit  *RateLimit
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("pocket API error: status %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("pocket API error: status %d: %s", e.StatusCode, e.Message)
}

// Is maps the response status onto the package sentinels so callers can
// use errors.Is without unwrapping by hand.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrAccessDenied:
		return e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusForbidden && e.RateLimit.Exhausted()
	case ErrServerMaintenance:
		return e.StatusCode == http.StatusServiceUnavailable
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the error indicates an exhausted call budget
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusForbidden && e.RateLimit.Exhausted()
}

// RateLimit reports Pocket's per-user and per-consumer-key call budgets as
// echoed in the X-Limit-* response headers. Fields for absent headers hold
// -1. Reset values count seconds until the window reopens.
type RateLimit struct {
	UserLimit     int
	UserRemaining int
	UserReset     int
	KeyLimit      int
	KeyRemaining  int
	KeyReset      int
}

// Exhausted reports whether either the user or the consumer-key window has
// zero calls remaining.
func (r *RateLimit) Exhausted() bool {
	if r == nil {
		return false
	}
	return r.UserRemaining == 0 || r.KeyRemaining == 0
}

// parseRateLimit extracts the X-Limit-* headers. It returns nil when none
// of them are present.
func parseRateLimit(header http.Header) *RateLimit {
	names := []string{
		headerUserLimit, headerUserRemaining, headerUserReset,
		headerKeyLimit, headerKeyRemaining, headerKeyReset,
	}
	present := false
	for _, name := range names {
		if header.Get(name) != "" {
			present = true
			break
		}
	}
	if !present {
		return nil
	}
	return &RateLimit{
		UserLimit:     limitHeader(header, headerUserLimit),
		UserRemaining: limitHeader(header, headerUserRemaining),
		UserReset:     limitHeader(header, headerUserReset),
		KeyLimit:      limitHeader(header, headerKeyLimit),
		KeyRemaining:  limitHeader(header, headerKeyRemaining),
		KeyReset:      limitHeader(header, headerKeyReset),
	}
}

func limitHeader(header http.Header, name string) int {
	v := header.Get(name)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

// RequestError wraps a transport-level failure: the request never
// completed, whether because the connection could not be established, the
// context was cancelled, or the response body broke off mid-read. No HTTP
// status was classified.
type RequestError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("pocket request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// DecodeError reports a success response whose body could not be decoded
// as the endpoint's JSON payload. The raw body is preserved.
type DecodeError struct {
	Err  error
	Body string
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("pocket: decoding response body: %v", e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
