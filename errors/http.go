package errors

import (
	"context"
	"errors"
	"net/http"
)

// StatusClientClosedRequest is returned when the client went away before the answer.
const StatusClientClosedRequest = 499

// MapToHTTPStatus translates a core error into the status code returned by the transport.
// Unknown errors are treated as storage unavailability.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidParticipants), errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomAlreadyExists), errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrStorageConflict):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsBusinessError reports whether err is a rule violation rather than an infrastructure failure.
func IsBusinessError(err error) bool {
	return !IsCancellation(err) && MapToHTTPStatus(err) < http.StatusInternalServerError
}

// IsCancellation reports whether err only tells that the request context ended.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
