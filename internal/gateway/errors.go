package gateway

import (
	"errors"
	"net/http"
)

// Kind classifies a request failure; each kind maps to one HTTP status.
type Kind int

const (
	// KindInput covers missing or malformed request parameters.
	KindInput Kind = iota
	// KindAuthorization covers bad origin/referer, bot user agents, and
	// failed human verification.
	KindAuthorization
	// KindRateLimit means the client exceeded its sliding-window quota.
	KindRateLimit
	// KindNotFound means the requested format id does not exist.
	KindNotFound
	// KindExtraction covers any failure of the extraction collaborator.
	KindExtraction
)

// Error is a request-terminating failure with a client-facing detail message.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// InputError reports a missing or malformed parameter (400).
func InputError(detail string) *Error {
	return &Error{Kind: KindInput, Detail: detail}
}

// AuthorizationError reports a rejected caller (403).
func AuthorizationError(detail string) *Error {
	return &Error{Kind: KindAuthorization, Detail: detail}
}

// RateLimitError reports an exhausted quota (429).
func RateLimitError(detail string) *Error {
	return &Error{Kind: KindRateLimit, Detail: detail}
}

// NotFoundError reports an unknown format id (404).
func NotFoundError(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

// ExtractionError reports a collaborator failure with its diagnostic (400).
func ExtractionError(detail string) *Error {
	return &Error{Kind: KindExtraction, Detail: detail}
}

// StatusCode maps an error to the HTTP status the handler should answer with.
// Errors that are not *Error are internal and map to 500.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindInput, KindExtraction:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the client-facing message for an error. Internal errors get
// a generic message so their diagnostics stay in the logs.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal server error"
}
