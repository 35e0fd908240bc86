package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ticketgo/ticketgo/internal/model"
)

// SeatRepo is the seat ledger: the single source of truth for whether
// a seat is sellable. All write operations run inside the caller's
// transaction so a reservation commits or aborts as one unit.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// FindByNameAndCoachTx resolves a seat by its name within a coach,
// inside the given transaction. Returns ErrSeatNotFound when no such
// seat exists for that coach.
func (r *SeatRepo) FindByNameAndCoachTx(ctx context.Context, tx *sql.Tx, name string, coachID uint64) (*model.Seat, error) {
	const q = `SELECT id, coach_id, name, occupied, created_at, updated_at
	           FROM seats
	           WHERE name = ? AND coach_id = ?`
	var s model.Seat
	err := tx.QueryRowContext(ctx, q, name, coachID).
		Scan(&s.ID, &s.CoachID, &s.Name, &s.Occupied, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// MarkOccupiedTx flips a seat to occupied with a conditional update.
// The WHERE clause on occupied = 0 is the exclusivity gate: when two
// reservations race for one seat, exactly one update matches a row and
// the loser receives ErrSeatTaken. Callers must abort their
// transaction on that error.
func (r *SeatRepo) MarkOccupiedTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	const q = `UPDATE seats
	           SET occupied = 1, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND occupied = 0`
	res, err := tx.ExecContext(ctx, q, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatTaken
	}
	return nil
}

// GetByCoach retrieves all seats of a coach ordered by name. Used by
// the bookable-seats view; availability rendered from Occupied.
func (r *SeatRepo) GetByCoach(ctx context.Context, coachID uint64) ([]model.Seat, error) {
	const q = `SELECT id, coach_id, name, occupied, created_at, updated_at
	           FROM seats
	           WHERE coach_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.CoachID, &s.Name, &s.Occupied, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
