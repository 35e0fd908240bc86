// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderConfirmedEvent is published after a reservation transaction
// commits. It carries enough for downstream consumers to log or
// notify without querying the primary database.
type OrderConfirmedEvent struct {
	OrderID     uint64   `json:"order_id"`
	AccountID   uint64   `json:"account_id"`
	CoachID     uint64   `json:"coach_id"`
	SeatNames   []string `json:"seats"`
	TotalCents  uint32   `json:"total_cents"`
	ConfirmedAt string   `json:"confirmed_at"`
}
