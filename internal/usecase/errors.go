package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDuplicatePrediction   = errors.New("duplicate prediction")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUpstreamUnavailable marks competition provider failures.
	ErrUpstreamUnavailable = ErrDependencyUnavailable
)
