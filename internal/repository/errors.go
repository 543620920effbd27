// Package repository implements the persistence layer on top of
// database/sql.  This file defines sentinel errors shared across the
// repositories so that handlers can map failure scenarios to HTTP
// responses: ErrForbidden becomes 403, ErrConflict 409 and the
// not-found values 404.  Duplicate-key races (MySQL error 1062) are
// absorbed inside the repositories and never surface as user errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as claiming a slot that was taken by a
// concurrent booking or toggling a slot that has an active booking.
var ErrConflict = errors.New("conflict")

// ErrCourtNotFound is returned when no court exists for the given id.
var ErrCourtNotFound = errors.New("court not found")

// ErrSlotNotFound is returned when no time slot exists for the given id.
var ErrSlotNotFound = errors.New("time slot not found")

// ErrBookingNotFound is returned when no booking exists for the given id.
var ErrBookingNotFound = errors.New("booking not found")
