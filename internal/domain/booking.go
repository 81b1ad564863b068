package domain

import (
	"context"
	"time"
)

// Booking links one user to one class. MinutesSpent is fixed at creation.
type Booking struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ClassID      string    `json:"classId"`
	MinutesSpent int       `json:"minutesSpent"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BookingRepository is the port for booking persistence.
type BookingRepository interface {
	// Create returns ErrAlreadyBooked when the (user, class) pair exists.
	Create(ctx context.Context, b *Booking) error
	GetByUserAndClass(ctx context.Context, userID, classID string) (*Booking, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Booking, error)
}
