package model

// Route describes the two endpoints a departure travels between.
// Routes are administrative data and read-only to the booking engine.
//
// Fields:
//  ID         – primary key identifier.
//  PointStart – name of the origin station.
//  PointEnd   – name of the destination station.
type Route struct {
	ID         uint64 // routes.id
	PointStart string // routes.point_start
	PointEnd   string // routes.point_end
}
