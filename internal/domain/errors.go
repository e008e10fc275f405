// Package domain holds the error taxonomy shared by every service.
// Storage drivers and other third-party failures are translated into
// these sentinels at the boundary that observes them; callers only
// ever match against this set.
package domain

import "errors"

var (
	// ErrDuplicateIdentity is returned when a username or email is
	// already taken.
	ErrDuplicateIdentity = errors.New("username or email already in use")

	// ErrWeakCredential is returned when a password fails the minimum
	// length requirement.
	ErrWeakCredential = errors.New("password too weak")

	// ErrAuthFailure covers both an unknown identity and a wrong
	// password. Callers cannot tell the two apart.
	ErrAuthFailure = errors.New("invalid credentials")

	// ErrEmptyContent is returned for a blank message body.
	ErrEmptyContent = errors.New("empty message content")

	// ErrUnsafeContent is returned when a message body contains
	// embedded script or markup payloads.
	ErrUnsafeContent = errors.New("unsafe message content")

	// ErrSelfReference is returned when a user is paired with itself.
	ErrSelfReference = errors.New("cannot reference self")

	// ErrAlreadyExists is returned when a record for the pair already
	// exists, in any status.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to touch the record, e.g. reading a conversation it does
	// not participate in.
	ErrForbidden = errors.New("forbidden")

	// ErrStorageUnavailable wraps storage failures that are not
	// constraint violations. Retryable by the caller, never internally.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
