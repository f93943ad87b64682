package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// vacation or stop does not exist.
// Handlers map this to HTTP 404; the chat bot replies "No ... found".
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, end date before start date).
// The chat bot surfaces it to the user as a usage hint.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by the repo when a write violates a storage
// constraint: a reused identifier or a CHECK such as a non-empty title.
var ErrConflict = errors.New("constraint violation")

// ErrReference is returned when a stop names a vacation that does not exist.
var ErrReference = errors.New("unknown vacation")

// ErrUnavailable marks a failure of an external collaborator (geocoding or
// messaging API). It is never fatal; geocoding failures degrade to a stop
// without coordinates.
var ErrUnavailable = errors.New("external service unavailable")
