package gateway

import (
	"errors"
	"strings"
)

// ErrorKind classifies an upstream failure.
type ErrorKind int

const (
	// KindUnknown covers any upstream error not recognized below, including
	// responses with missing required fields.
	KindUnknown ErrorKind = iota
	// KindNotFound means the queried user does not exist.
	KindNotFound
	// KindTransient means rate limiting or a server-side failure; the call
	// may succeed if repeated later.
	KindTransient
)

// APIError is the single error type the gateway surfaces. Aggregators pass it
// through unchanged; retry decisions and user-visible handling belong to the
// caller.
type APIError struct {
	Kind     ErrorKind
	Messages []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return "github api error"
	}
	return "github api error: " + strings.Join(e.Messages, "; ")
}

// classify wraps an error from the GraphQL client into an APIError. The
// client reports GraphQL errors as plain text, so kinds are recognized from
// the message the API returns.
func classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	msg := err.Error()
	kind := KindUnknown
	switch {
	case strings.Contains(msg, "Could not resolve to a User"):
		kind = KindNotFound
	case strings.Contains(strings.ToLower(msg), "rate limit"),
		strings.Contains(msg, "status code: 429"),
		strings.Contains(msg, "status code: 5"):
		kind = KindTransient
	}
	return &APIError{Kind: kind, Messages: []string{msg}}
}

// IsNotFound reports whether err is an upstream user-not-found failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsTransient reports whether err is a rate-limit or server-side failure.
func IsTransient(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransient
}
