package model

import "time"

// Ticket is proof of purchase for one seat on one departure.  Tickets
// are immutable after creation.  PriceCents carries the whole order's
// total, not a per-seat share; see the order view semantics.
type Ticket struct {
	ID          uint64    // tickets.id
	SeatID      uint64    // tickets.seat_id
	DepartureID uint64    // tickets.departure_id
	IssuedAt    time.Time // tickets.issued_at
	PriceCents  uint32    // tickets.price_cents
}

// OrderTicket links a ticket to the order that bought it.  A ticket
// belongs to at most one order.
type OrderTicket struct {
	OrderID  uint64 // order_tickets.order_id
	TicketID uint64 // order_tickets.ticket_id
}
