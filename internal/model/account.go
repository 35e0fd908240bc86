package model

import "time"

// Account mirrors the 'accounts' table.  Accounts identify customers
// and administrators; orders are stamped with the account that booked
// them and the booking staging store is keyed by account identity.
type Account struct {
	ID           uint64    // accounts.id
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash
	FullName     string    // accounts.full_name
	Role         string    // accounts.role (CUSTOMER | ADMIN)
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}
