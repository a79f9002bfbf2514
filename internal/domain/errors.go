// internal/domain/errors.go
package domain

import "errors"

// ErrUnauthorized is returned by servers when the API responds with HTTP 401.
// Callers can check for it using errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnavailable is returned when the CI server could not be reached or answered
// with a server-side error. Publishing is an upsert, so these calls may be retried.
var ErrUnavailable = errors.New("ci server unavailable")

// ErrMissingFact is wrapped by validation errors when a repository fact required to
// build the topology was neither resolved nor supplied as an override.
var ErrMissingFact = errors.New("missing repository fact")
