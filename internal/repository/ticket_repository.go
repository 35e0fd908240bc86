package repository

import (
	"context"
	"database/sql"

	"github.com/ticketgo/ticketgo/internal/model"
)

// TicketRepo persists tickets and their order link rows. Tickets are
// created exclusively by the reservation transaction and immutable
// afterwards, so only Tx write methods exist.
type TicketRepo struct {
	db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// CreateTx inserts a ticket within the given transaction and populates
// the generated ID on the provided record.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (seat_id, departure_id, issued_at, price_cents)
	           VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.SeatID, t.DepartureID, t.IssuedAt, t.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// LinkOrderTx inserts the order_tickets row tying a ticket to its
// order. A ticket belongs to at most one order; the unique key on
// ticket_id enforces that.
func (r *TicketRepo) LinkOrderTx(ctx context.Context, tx *sql.Tx, orderID, ticketID uint64) error {
	const q = `INSERT INTO order_tickets (order_id, ticket_id) VALUES (?, ?)`
	_, err := tx.ExecContext(ctx, q, orderID, ticketID)
	return err
}
