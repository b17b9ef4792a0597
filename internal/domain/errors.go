package domain

import "errors"

var (
	// ErrUserNotFound signals an unknown API key.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserInactive signals a deactivated API key.
	ErrUserInactive = errors.New("user inactive")
	// ErrMalformedJSON signals a request body that is not JSON.
	ErrMalformedJSON = errors.New("malformed JSON body")
	// ErrInvalidBatch signals a batch that violates the size or shape limits.
	ErrInvalidBatch = errors.New("invalid batch")
	// ErrBackendUnavailable signals a tagging worker that failed a probe.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInvalidUser signals a user record that cannot be stored.
	ErrInvalidUser = errors.New("invalid user")
)
