package model

import "time"

// Departure represents a scheduled train run between the two points of
// its route.  The coefficient is a price multiplier applied to a
// coach's base price; when NULL in the database it is treated as 1.
// Departures are created by administrative tooling and are read-only
// to the booking engine.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – public train name (e.g. "SE1").
//  StartsAt    – scheduled start of the run.
//  RouteID     – route the departure travels.
//  Coefficient – optional price multiplier (nil means 1).
type Departure struct {
	ID          uint64    // departures.id
	Name        string    // departures.name
	StartsAt    time.Time // departures.date_start
	RouteID     uint64    // departures.route_id
	Coefficient *float64  // departures.coefficient (nullable)
	CreatedAt   time.Time // departures.created_at
	UpdatedAt   time.Time // departures.updated_at
}
