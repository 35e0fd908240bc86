package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ticketgo/ticketgo/internal/model"
)

// OrderRepo persists order headers and reconstructs customer-facing
// order views from the order/ticket/seat records. The view path is
// read only; it never mutates seat state.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so services can open transactions
// spanning multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// OrderView flattens an order with its discount, seat list and trip
// metadata for display. The trip fields (departure, route, coach) are
// taken from the order's first ticket only: if tickets ever spanned
// more than one departure, later tickets' trip context is not shown.
type OrderView struct {
	ID            uint64     `json:"id"`
	TotalCents    uint32     `json:"total_cents"`
	OrderedAt     time.Time  `json:"ordered_at"`
	DiscountName  *string    `json:"discount_name,omitempty"`
	CustomerName  string     `json:"customer_name"`
	Phone         string     `json:"phone"`
	AccountID     *uint64    `json:"account_id,omitempty"`
	ListSeats     []string   `json:"list_seats"`
	DepartureName *string    `json:"departure_name,omitempty"`
	PointStart    *string    `json:"point_start,omitempty"`
	PointEnd      *string    `json:"point_end,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	CoachName     *string    `json:"coach_name,omitempty"`
	CoachCategory *string    `json:"coach_category,omitempty"`
}

// CreateTx inserts the order header within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or rollback. The identity is established
// before seats are processed because tickets link back to it.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (total_cents, ordered_at, customer_name, phone, discount_id, account_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		o.TotalCents, o.OrderedAt, o.CustomerName, o.Phone, o.DiscountID, o.AccountID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// ByID returns a single order view. Returns ErrOrderNotFound when the
// order does not exist.
func (r *OrderRepo) ByID(ctx context.Context, id uint64) (*OrderView, error) {
	const q = `SELECT o.id, o.total_cents, o.ordered_at, o.customer_name, o.phone, o.account_id, dc.name
	           FROM orders o
	           LEFT JOIN discounts dc ON dc.id = o.discount_id
	           WHERE o.id = ?`
	var v OrderView
	var accountID sql.NullInt64
	var discountName sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.TotalCents, &v.OrderedAt, &v.CustomerName, &v.Phone, &accountID, &discountName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if accountID.Valid {
		aid := uint64(accountID.Int64)
		v.AccountID = &aid
	}
	if discountName.Valid {
		dn := discountName.String
		v.DiscountName = &dn
	}
	v.ListSeats = []string{}
	views := []OrderView{v}
	if err := r.populateTickets(ctx, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListByAccount returns all order views owned by the given account,
// newest first.
func (r *OrderRepo) ListByAccount(ctx context.Context, accountID uint64) ([]OrderView, error) {
	const q = `SELECT o.id, o.total_cents, o.ordered_at, o.customer_name, o.phone, o.account_id, dc.name
	           FROM orders o
	           LEFT JOIN discounts dc ON dc.id = o.discount_id
	           WHERE o.account_id = ?
	           ORDER BY o.ordered_at DESC, o.id DESC`
	return r.listViews(ctx, q, accountID)
}

// ListAll returns every order view, newest first. Admin path.
func (r *OrderRepo) ListAll(ctx context.Context) ([]OrderView, error) {
	const q = `SELECT o.id, o.total_cents, o.ordered_at, o.customer_name, o.phone, o.account_id, dc.name
	           FROM orders o
	           LEFT JOIN discounts dc ON dc.id = o.discount_id
	           ORDER BY o.ordered_at DESC, o.id DESC`
	return r.listViews(ctx, q)
}

func (r *OrderRepo) listViews(ctx context.Context, q string, args ...interface{}) ([]OrderView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		var v OrderView
		var accountID sql.NullInt64
		var discountName sql.NullString
		if err := rows.Scan(&v.ID, &v.TotalCents, &v.OrderedAt, &v.CustomerName, &v.Phone,
			&accountID, &discountName); err != nil {
			return nil, err
		}
		if accountID.Valid {
			aid := uint64(accountID.Int64)
			v.AccountID = &aid
		}
		if discountName.Valid {
			dn := discountName.String
			v.DiscountName = &dn
		}
		v.ListSeats = []string{}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return views, nil
	}
	if err := r.populateTickets(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

// populateTickets fills seat names and trip metadata for all views in
// a single query. Rows come back ordered by order id then ticket id,
// so the first row seen for an order is its first ticket; only that
// row contributes the trip context.
func (r *OrderRepo) populateTickets(ctx context.Context, views []OrderView) error {
	ids := make([]interface{}, 0, len(views))
	placeholders := make([]string, 0, len(views))
	index := make(map[uint64]int, len(views))
	for i, v := range views {
		ids = append(ids, v.ID)
		placeholders = append(placeholders, "?")
		index[v.ID] = i
	}
	q := `SELECT ot.order_id, se.name, d.name, rt.point_start, rt.point_end, d.date_start, co.name, co.category
	      FROM order_tickets ot
	      JOIN tickets t ON t.id = ot.ticket_id
	      JOIN seats se ON se.id = t.seat_id
	      JOIN coaches co ON co.id = se.coach_id
	      LEFT JOIN departures d ON d.id = t.departure_id
	      LEFT JOIN routes rt ON rt.id = d.route_id
	      WHERE ot.order_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY ot.order_id, t.id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uint64
		var seatName string
		var depName, pointStart, pointEnd sql.NullString
		var depStart sql.NullTime
		var coachName, coachCategory sql.NullString
		if err := rows.Scan(&orderID, &seatName, &depName, &pointStart, &pointEnd,
			&depStart, &coachName, &coachCategory); err != nil {
			return err
		}
		i, ok := index[orderID]
		if !ok {
			continue
		}
		if len(views[i].ListSeats) == 0 {
			// first ticket wins the trip metadata
			if depName.Valid {
				s := depName.String
				views[i].DepartureName = &s
			}
			if pointStart.Valid {
				s := pointStart.String
				views[i].PointStart = &s
			}
			if pointEnd.Valid {
				s := pointEnd.String
				views[i].PointEnd = &s
			}
			if depStart.Valid {
				t := depStart.Time
				views[i].DepartureTime = &t
			}
			if coachName.Valid {
				s := coachName.String
				views[i].CoachName = &s
			}
			if coachCategory.Valid {
				s := coachCategory.String
				views[i].CoachCategory = &s
			}
		}
		views[i].ListSeats = append(views[i].ListSeats, seatName)
	}
	return rows.Err()
}

// Delete removes an order and its order_tickets link rows. Tickets and
// seat flags are deliberately untouched: deleting an order must never
// resurrect seat availability. Returns ErrOrderNotFound when no order
// with the id exists.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_tickets WHERE order_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
