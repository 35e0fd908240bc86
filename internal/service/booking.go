// Package service orchestrates the booking workflow: staging a seat
// selection before the payment redirect and converting the staged
// draft into durable order, ticket and seat state once payment
// returns.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ticketgo/ticketgo/internal/model"
	"github.com/ticketgo/ticketgo/internal/pricing"
	"github.com/ticketgo/ticketgo/internal/queue"
	"github.com/ticketgo/ticketgo/internal/repository"
	"github.com/ticketgo/ticketgo/internal/staging"
)

// ErrCoachRequired is returned when a draft names no coach.
var ErrCoachRequired = errors.New("coach id is required")

// ErrNoSeatsSelected is returned when a draft names no seats.
var ErrNoSeatsSelected = errors.New("no seats selected")

// OrderEvents is implemented by the queue publisher. Publish failures
// never fail a committed booking; they are logged by the publisher and
// ignored here.
type OrderEvents interface {
	OrderConfirmed(ctx context.Context, ev queue.OrderConfirmedEvent) error
}

// BookingService owns the reservation transaction. All repositories
// share one *sql.DB so the whole conversion runs in a single
// transaction: either every seat, ticket and the order commit, or
// none do.
type BookingService struct {
	db      *sql.DB
	seats   *repository.SeatRepo
	coaches *repository.CoachRepo
	orders  *repository.OrderRepo
	tickets *repository.TicketRepo
	drafts  staging.Store
	events  OrderEvents

	now func() time.Time
}

// NewBookingService wires the booking workflow. events may be nil
// when no broker is configured.
func NewBookingService(db *sql.DB, seats *repository.SeatRepo, coaches *repository.CoachRepo,
	orders *repository.OrderRepo, tickets *repository.TicketRepo, drafts staging.Store,
	events OrderEvents) *BookingService {
	if db == nil || seats == nil || coaches == nil || orders == nil || tickets == nil || drafts == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		db:      db,
		seats:   seats,
		coaches: coaches,
		orders:  orders,
		tickets: tickets,
		drafts:  drafts,
		events:  events,
		now:     time.Now,
	}
}

// StageBooking stores the customer's selection for the session,
// overwriting any prior unconsumed draft. The draft is validated here
// so a customer is not sent to the gateway with a selection that can
// only fail at callback time.
func (s *BookingService) StageBooking(ctx context.Context, sessionKey string, d staging.Draft) error {
	if d.CoachID == 0 {
		return ErrCoachRequired
	}
	if len(d.SeatNames) == 0 {
		return ErrNoSeatsSelected
	}
	return s.drafts.Put(ctx, sessionKey, d)
}

// ConfirmBooking is the payment-callback entry point. It consumes the
// session's draft exactly once and runs the reservation transaction:
//
//  1. create the order header (its identity is needed before seats are
//     processed because tickets link to it),
//  2. per requested seat, in the customer's order: resolve the seat by
//     (name, coach), reject a row without a persisted id, flip it
//     occupied through the conditional update
//     that guarantees at most one winner per seat, validate the
//     coach's departure linkage, create a ticket priced at the whole
//     order's total, and link it to the order.
//
// Any failure rolls the entire transaction back; partially sold seats
// are never observable. The gateway's callback parameters are not
// consulted — booking context comes solely from the staged draft.
func (s *BookingService) ConfirmBooking(ctx context.Context, sessionKey string) (uint64, error) {
	draft, err := s.drafts.Take(ctx, sessionKey)
	if err != nil {
		return 0, err
	}
	if draft.CoachID == 0 {
		return 0, ErrCoachRequired
	}
	if len(draft.SeatNames) == 0 {
		return 0, ErrNoSeatsSelected
	}

	now := s.now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order := &model.Order{
		TotalCents:   draft.TotalCents,
		OrderedAt:    now,
		CustomerName: draft.CustomerName,
		Phone:        draft.Phone,
		DiscountID:   draft.DiscountID,
	}
	if draft.AccountID != 0 {
		aid := draft.AccountID
		order.AccountID = &aid
	}
	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return 0, err
	}

	for _, seatName := range draft.SeatNames {
		seat, err := s.seats.FindByNameAndCoachTx(ctx, tx, seatName, draft.CoachID)
		if err != nil {
			return 0, err
		}
		if seat.ID == 0 {
			return 0, repository.ErrInvalidSeatIdentity
		}
		if err := s.seats.MarkOccupiedTx(ctx, tx, seat.ID); err != nil {
			return 0, err
		}
		coach, err := s.coaches.GetTx(ctx, tx, seat.CoachID)
		if err != nil {
			return 0, err
		}
		if coach.DepartureID == nil {
			return 0, repository.ErrDepartureNotAssigned
		}
		// Each ticket carries the whole order's total, not a per-seat
		// share. That is the contract order views are built on.
		ticket := &model.Ticket{
			SeatID:      seat.ID,
			DepartureID: *coach.DepartureID,
			IssuedAt:    now,
			PriceCents:  draft.TotalCents,
		}
		if err := s.tickets.CreateTx(ctx, tx, ticket); err != nil {
			return 0, err
		}
		if err := s.tickets.LinkOrderTx(ctx, tx, order.ID, ticket.ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	if s.events != nil {
		_ = s.events.OrderConfirmed(ctx, queue.OrderConfirmedEvent{
			OrderID:     order.ID,
			AccountID:   draft.AccountID,
			CoachID:     draft.CoachID,
			SeatNames:   draft.SeatNames,
			TotalCents:  draft.TotalCents,
			ConfirmedAt: now.Format(time.RFC3339),
		})
	}
	return order.ID, nil
}

// BookableSeats is the pre-booking view of a coach: trip context,
// which seats are already sold, and the unit price a single ticket
// would cost.
type BookableSeats struct {
	CoachID        uint64   `json:"coach_id"`
	CoachName      string   `json:"coach_name"`
	Category       string   `json:"category"`
	DepartureID    uint64   `json:"departure_id"`
	DepartureName  string   `json:"departure_name"`
	PointStart     string   `json:"point_start"`
	PointEnd       string   `json:"point_end"`
	StartsAt       string   `json:"starts_at"`
	UnitPriceCents uint32   `json:"unit_price_cents"`
	SeatNames      []string `json:"seat_names"`
	OccupiedSeats  []string `json:"occupied_seats"`
}

// GetBookableSeats loads the coach snapshot used to render seat
// selection. The unit price is resolved from the owning departure's
// first coach. An unscheduled coach is not sellable and reports
// repository.ErrDepartureNotAssigned.
func (s *BookingService) GetBookableSeats(ctx context.Context, coachID uint64) (*BookableSeats, error) {
	cc, err := s.coaches.GetWithContext(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if cc.Departure == nil || cc.Route == nil {
		return nil, repository.ErrDepartureNotAssigned
	}
	out := &BookableSeats{
		CoachID:        cc.Coach.ID,
		CoachName:      cc.Coach.Name,
		Category:       cc.Coach.Category,
		DepartureID:    cc.Departure.ID,
		DepartureName:  cc.Departure.Name,
		PointStart:     cc.Route.PointStart,
		PointEnd:       cc.Route.PointEnd,
		StartsAt:       cc.Departure.StartsAt.UTC().Format(time.RFC3339),
		UnitPriceCents: pricing.UnitPriceCents(cc.Departure, cc.DepartureCoaches),
		SeatNames:      make([]string, 0, len(cc.Seats)),
		OccupiedSeats:  make([]string, 0),
	}
	if c, ok := model.NormalizeCategory(cc.Coach.Category); ok {
		out.Category = string(c)
	}
	for _, seat := range cc.Seats {
		out.SeatNames = append(out.SeatNames, seat.Name)
		if seat.Occupied {
			out.OccupiedSeats = append(out.OccupiedSeats, seat.Name)
		}
	}
	return out, nil
}
