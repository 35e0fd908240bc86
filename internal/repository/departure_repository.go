package repository

import (
	"context"
	"database/sql"
	"time"
)

// DepartureRepo provides read-only access to departures for browsing.
type DepartureRepo struct {
	db *sql.DB
}

func NewDepartureRepo(db *sql.DB) *DepartureRepo { return &DepartureRepo{db: db} }

// DepartureSummary is the browse listing row: departure plus route
// names and the first coach a client can open for booking.
type DepartureSummary struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	StartsAt     string   `json:"starts_at"`
	PointStart   string   `json:"point_start"`
	PointEnd     string   `json:"point_end"`
	Coefficient  *float64 `json:"coefficient,omitempty"`
	FirstCoachID *uint64  `json:"first_coach_id,omitempty"`
}

// List returns all departures joined with their routes, newest run
// first. Departures without coaches are still listed; FirstCoachID is
// nil for them.
func (r *DepartureRepo) List(ctx context.Context) ([]DepartureSummary, error) {
	const q = `SELECT d.id, d.name, d.date_start, d.coefficient,
	                  rt.point_start, rt.point_end,
	                  (SELECT MIN(co.id) FROM coaches co WHERE co.departure_id = d.id)
	           FROM departures d
	           JOIN routes rt ON rt.id = d.route_id
	           ORDER BY d.date_start DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]DepartureSummary, 0)
	for rows.Next() {
		var d DepartureSummary
		var startsAt sql.NullTime
		var coefficient sql.NullFloat64
		var firstCoach sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &startsAt, &coefficient,
			&d.PointStart, &d.PointEnd, &firstCoach); err != nil {
			return nil, err
		}
		if startsAt.Valid {
			d.StartsAt = startsAt.Time.UTC().Format(time.RFC3339)
		}
		if coefficient.Valid {
			v := coefficient.Float64
			d.Coefficient = &v
		}
		if firstCoach.Valid {
			id := uint64(firstCoach.Int64)
			d.FirstCoachID = &id
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
