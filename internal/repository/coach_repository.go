package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ticketgo/ticketgo/internal/model"
)

// CoachRepo provides read access to coaches together with their
// departure context. Coaches are administrative data; the booking
// engine never mutates them.
type CoachRepo struct {
	db *sql.DB
}

// NewCoachRepo constructs a CoachRepo bound to the given database.
func NewCoachRepo(db *sql.DB) *CoachRepo { return &CoachRepo{db: db} }

// CoachContext is a single consistent snapshot of a coach and
// everything booking needs around it: the coach's own seats, its
// departure with route, and the departure's full coach list (ordered
// by id) from which the unit price is derived.
type CoachContext struct {
	Coach            model.Coach
	Seats            []model.Seat
	Departure        *model.Departure
	Route            *model.Route
	DepartureCoaches []model.Coach
}

// GetWithContext loads a coach with its seats, departure, route and
// the departure's coach list. Returns ErrCoachNotFound when the coach
// does not exist. Departure and Route are nil when the coach is not
// scheduled yet.
func (r *CoachRepo) GetWithContext(ctx context.Context, coachID uint64) (*CoachContext, error) {
	const q = `SELECT co.id, co.departure_id, co.name, co.category, co.base_price_cents, co.created_at, co.updated_at,
	                  d.id, d.name, d.date_start, d.route_id, d.coefficient,
	                  rt.id, rt.point_start, rt.point_end
	           FROM coaches co
	           LEFT JOIN departures d ON d.id = co.departure_id
	           LEFT JOIN routes rt ON rt.id = d.route_id
	           WHERE co.id = ?`
	var cc CoachContext
	var (
		depID       sql.NullInt64
		depName     sql.NullString
		depStart    sql.NullTime
		depRouteID  sql.NullInt64
		coefficient sql.NullFloat64
		routeID     sql.NullInt64
		pointStart  sql.NullString
		pointEnd    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, coachID).Scan(
		&cc.Coach.ID, &cc.Coach.DepartureID, &cc.Coach.Name, &cc.Coach.Category,
		&cc.Coach.BasePriceCents, &cc.Coach.CreatedAt, &cc.Coach.UpdatedAt,
		&depID, &depName, &depStart, &depRouteID, &coefficient,
		&routeID, &pointStart, &pointEnd,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if depID.Valid {
		dep := model.Departure{
			ID:       uint64(depID.Int64),
			Name:     depName.String,
			StartsAt: depStart.Time,
			RouteID:  uint64(depRouteID.Int64),
		}
		if coefficient.Valid {
			v := coefficient.Float64
			dep.Coefficient = &v
		}
		cc.Departure = &dep
	}
	if routeID.Valid {
		cc.Route = &model.Route{
			ID:         uint64(routeID.Int64),
			PointStart: pointStart.String,
			PointEnd:   pointEnd.String,
		}
	}

	// Seats of this coach, ordered by name for deterministic output.
	const seatQ = `SELECT id, coach_id, name, occupied, created_at, updated_at
	               FROM seats WHERE coach_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, seatQ, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.CoachID, &s.Name, &s.Occupied, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		cc.Seats = append(cc.Seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// All coaches of the owning departure, id order. Pricing derives
	// the unit price from the first of these, not the coach above.
	if cc.Departure != nil {
		const coachQ = `SELECT id, departure_id, name, category, base_price_cents, created_at, updated_at
		                FROM coaches WHERE departure_id = ? ORDER BY id`
		crows, err := r.db.QueryContext(ctx, coachQ, cc.Departure.ID)
		if err != nil {
			return nil, err
		}
		defer crows.Close()
		for crows.Next() {
			var co model.Coach
			if err := crows.Scan(&co.ID, &co.DepartureID, &co.Name, &co.Category,
				&co.BasePriceCents, &co.CreatedAt, &co.UpdatedAt); err != nil {
				return nil, err
			}
			cc.DepartureCoaches = append(cc.DepartureCoaches, co)
		}
		if err := crows.Err(); err != nil {
			return nil, err
		}
	}
	return &cc, nil
}

// GetTx loads a single coach row inside a transaction. Used by the
// reservation loop to validate departure linkage per seat. Returns
// ErrCoachNotFound when the coach does not exist.
func (r *CoachRepo) GetTx(ctx context.Context, tx *sql.Tx, coachID uint64) (*model.Coach, error) {
	const q = `SELECT id, departure_id, name, category, base_price_cents, created_at, updated_at
	           FROM coaches WHERE id = ?`
	var co model.Coach
	err := tx.QueryRowContext(ctx, q, coachID).Scan(
		&co.ID, &co.DepartureID, &co.Name, &co.Category,
		&co.BasePriceCents, &co.CreatedAt, &co.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return &co, nil
}
