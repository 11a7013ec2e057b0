package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a use-case returns on purpose wraps exactly one of
// these, so the transport layer can map it to a status code with errors.Is.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrHashing      = errors.New("hashing failed")
	ErrDuplicateKey = errors.New("duplicate key")
)

var (
	ErrEmailTaken           = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrAlreadyVerified      = fmt.Errorf("%w: user is already verified", ErrConflict)
	ErrInvalidOrExpiredCode = fmt.Errorf("%w: code is invalid or expired", ErrConflict)

	ErrUserNotFound = fmt.Errorf("%w: user does not exist", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("%w: post does not exist", ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrCodeMismatch       = fmt.Errorf("%w: code does not match", ErrUnauthorized)

	ErrNotVerified  = fmt.Errorf("%w: user is not verified", ErrForbidden)
	ErrNotPostOwner = fmt.Errorf("%w: post belongs to another user", ErrForbidden)
)
