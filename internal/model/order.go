package model

import "time"

// Order is the purchase record created once per completed reservation.
// Customer name and phone are captured at booking time and may differ
// from the owning account's profile.  An order owns at least one
// ticket once committed; the link rows live in order_tickets.
//
// Fields:
//  ID           – primary key identifier.
//  TotalCents   – total price the customer paid, in cents.
//  OrderedAt    – order timestamp.
//  CustomerName – name captured at booking time.
//  Phone        – phone captured at booking time.
//  DiscountID   – optional discount reference.
//  AccountID    – optional owning account.
type Order struct {
	ID           uint64    // orders.id
	TotalCents   uint32    // orders.total_cents
	OrderedAt    time.Time // orders.ordered_at
	CustomerName string    // orders.customer_name
	Phone        string    // orders.phone
	DiscountID   *uint64   // orders.discount_id (nullable)
	AccountID    *uint64   // orders.account_id (nullable)
}
