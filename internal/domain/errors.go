package domain

import "errors"

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail signals a registration attempt with an email already in use.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidCredentials covers both unknown accounts and wrong passwords.
	// Callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCodeInvalid signals a one-time code that matches no unconsumed record.
	ErrCodeInvalid = errors.New("invalid code")
	// ErrCodeExpired signals a matching code submitted past its expiry.
	ErrCodeExpired = errors.New("code expired")
	// ErrNotAuthenticated covers missing, malformed, expired, and wrong-type tokens.
	ErrNotAuthenticated = errors.New("not authenticated")
)
