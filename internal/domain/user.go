// Package domain contains the core business entities, their invariants and
// the ports the application layer depends on.
package domain

import (
	"context"
	"time"
)

// Role is the authorisation level of a user.
type Role string

const (
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleTrainer || r == RoleAdmin
}

// User is a marketplace account. RemainingMinutes is the time-credit balance
// and is only changed through the credit ledger.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	RemainingMinutes int       `json:"remainingMinutes"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UserRepository is the port for user persistence.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Count(ctx context.Context) (int, error)
	// LockSetup serialises first-run setup. The lock is held until the
	// surrounding transaction ends.
	LockSetup(ctx context.Context) error
	// DebitMinutes subtracts minutes only if the balance stays non-negative
	// and returns the new balance. ErrInsufficientMinutes otherwise.
	DebitMinutes(ctx context.Context, userID string, minutes int) (int, error)
	// CreditMinutes adds minutes and returns the new balance.
	CreditMinutes(ctx context.Context, userID string, minutes int) (int, error)
}
