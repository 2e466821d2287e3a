package service

import "errors"

// Sentinel errors the HTTP layer maps to response codes. Handlers match
// with errors.Is, so services may wrap these with context.
var (
	// Registration conflicts. Distinguishable on purpose: registration
	// already confirms existence, so field-level detail leaks nothing new.
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so login cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInactiveAccount is distinct: it is only reachable after the
	// password check has already passed.
	ErrInactiveAccount = errors.New("inactive user")

	// ErrUnauthorized is any failure to resolve a bearer token into an
	// active user: bad signature, expiry, or a subject that no longer
	// exists.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrNotFound covers missing resources and resources owned by someone
	// else; the two are never distinguished.
	ErrNotFound = errors.New("not found")

	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrInvalidCompleted = errors.New("is_completed must be 0 or 1")
)
