// Package repository holds the MongoDB access for users and appointments.
package repository

import "errors"

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")
