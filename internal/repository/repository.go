// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and hold no business logic.
package repository

import "errors"

// ErrNotFound is returned when a lookup or mutation targets a missing row.
var ErrNotFound = errors.New("record not found")
