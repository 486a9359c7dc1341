// Package apperr defines the error classes of the source API. Callers use
// errors.Is to distinguish credential problems from transient upstream
// failures without parsing error strings.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrUpstream     = errors.New("upstream error")
)

// FromStatus maps an HTTP status code to an error class. Codes outside the
// known set fall back to ErrUpstream.
func FromStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

// Transient reports whether the error class is worth retrying on a later
// run. Credential and addressing failures are permanent until config changes.
func Transient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUpstream)
}
