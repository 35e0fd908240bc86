package model

import "time"

// Seat is a sellable unit within a coach.  Its name is unique within
// the coach and is how customers reference it.  Occupied is one-way in
// this engine: it transitions false to true inside a successful
// reservation and is never reset (cancellation is handled elsewhere).
//
// Fields:
//  ID       – primary key identifier.
//  CoachID  – coach to which this seat belongs.
//  Name     – human readable seat name (e.g. "A1").
//  Occupied – whether the seat has been sold.
type Seat struct {
	ID        uint64    // seats.id
	CoachID   uint64    // seats.coach_id
	Name      string    // seats.name
	Occupied  bool      // seats.occupied
	CreatedAt time.Time // seats.created_at
	UpdatedAt time.Time // seats.updated_at
}
