package model

// Discount is referenced by orders by identity and read-only here.
type Discount struct {
	ID   uint64 // discounts.id
	Name string // discounts.name
}
