package domain

import (
	"context"
	"time"
)

// Routing keys for published domain events.
const (
	EventBookingCreated = "booking.created"
	EventPackagePaid    = "package.paid"
	EventPackageFailed  = "package.failed"
)

// BookingCreatedEvent is published after a booking commits.
type BookingCreatedEvent struct {
	BookingID    string    `json:"bookingId"`
	UserID       string    `json:"userId"`
	ClassID      string    `json:"classId"`
	MinutesSpent int       `json:"minutesSpent"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// PackageSettledEvent is published after a package leaves pending.
type PackageSettledEvent struct {
	PackageID       string        `json:"packageId"`
	UserID          string        `json:"userId"`
	Status          PackageStatus `json:"status"`
	MinutesCredited int           `json:"minutesCredited"`
	OccurredAt      time.Time     `json:"occurredAt"`
}

// EventPublisher is the port for outbound domain events. Delivery is best
// effort: callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
