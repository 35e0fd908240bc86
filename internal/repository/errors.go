// Package repository defines the data access layer and the sentinel
// errors shared across its repositories. Handlers and services compare
// against these values with errors.Is to translate failures into the
// booking error taxonomy: not-found conditions surface immediately,
// ErrSeatTaken is the conflict a caller must resolve with a fresh seat
// selection, and anything unrecognized is treated as a store failure.
package repository

import "errors"

// ErrSeatNotFound is returned when no seat with the requested name
// exists within the requested coach.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatTaken is returned when a seat was already occupied at commit
// time. The enclosing reservation must abort; the caller retries only
// with a fresh seat selection.
var ErrSeatTaken = errors.New("seat already taken")

// ErrCoachNotFound is returned when a coach record cannot be loaded.
var ErrCoachNotFound = errors.New("coach not found")

// ErrDepartureNotAssigned is returned when a coach has no linked
// departure. A coach must be scheduled before it can be sold.
var ErrDepartureNotAssigned = errors.New("coach has no departure assigned")

// ErrOrderNotFound is returned when an order lookup yields no rows.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidSeatIdentity is returned when a resolved seat row carries
// no persisted id. Writing against id 0 would flip nothing and link a
// ticket to a nonexistent seat, so the reservation must abort before
// any seat write.
var ErrInvalidSeatIdentity = errors.New("seat has no valid identity")
