package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// AuthorizationError rejects a mutation attempted without an authenticated actor.
type AuthorizationError struct {
	Op string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrUnauthorized)
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrUnauthorized }

// PersistenceError reports a failed write to the metadata table.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError names the input field that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
