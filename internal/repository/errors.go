// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: ErrConflict signals
// that an operation cannot proceed because of existing records (a duplicate
// email or cabin name), while ErrInvalidState marks a lifecycle transition
// attempted from the wrong status.
package repository

import "errors"

// ErrConflict is the base error for creates and updates rejected because of
// conflicting existing state. The duplicate-key sentinels (ErrEmailExists,
// ErrCabinNameExists) wrap it, so handlers can match either the specific
// error or the broader class. Maps to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when a booking lifecycle transition is
// attempted from a status that does not permit it (for example checking out
// a booking that was never checked in). Maps to HTTP 409.
var ErrInvalidState = errors.New("invalid state")
