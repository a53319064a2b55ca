// Package repository persists users, vehicles and bookings in MySQL. The
// sentinel errors below let handlers map store outcomes onto the HTTP
// error taxonomy without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist or exists but is owned
// by a different user. The two cases are deliberately indistinguishable so
// that ownership checks never leak resource existence.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert would violate the unique email
// constraint on the users table. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
