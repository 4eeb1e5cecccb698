package domain

import "errors"

// ErrSessionNotFound is returned when a user has no active (non-expired) session.
var ErrSessionNotFound = errors.New("session not found")

// ErrModuleCompleted is returned when submitting an answer to a completed module.
var ErrModuleCompleted = errors.New("module already completed")

// ErrNotInRemediation is returned when a remediation answer is submitted
// outside remediation mode.
var ErrNotInRemediation = errors.New("not in remediation mode")

// ErrStepNotFound is returned when a step id is absent from the catalog.
var ErrStepNotFound = errors.New("step not found")

// ErrRemoteUnavailable indicates the dialogue model could not be reached
// (network, rate limit, or API failure). The caller may retry the submission.
var ErrRemoteUnavailable = errors.New("dialogue model unavailable")

// ErrMalformedResponse indicates the dialogue model answered with JSON that
// does not match the expected shape. Not retried automatically.
var ErrMalformedResponse = errors.New("malformed dialogue model response")
