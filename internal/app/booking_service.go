package app

import (
	"context"
	"errors"
	"time"

	"classbook/internal/domain"
	"classbook/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService guards booking creation: a booking, the attendee append and
// the ledger debit either all commit or none do.
type BookingService struct {
	store     domain.Store
	ledger    *Ledger
	publisher domain.EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a BookingService.
func NewBookingService(store domain.Store, ledger *Ledger, publisher domain.EventPublisher, log *zap.Logger) *BookingService {
	return &BookingService{store: store, ledger: ledger, publisher: publisher, log: log, now: time.Now}
}

// CreateBooking books classID for userID. Checks run in order and each has
// its own error: ErrClassNotFound, ErrAlreadyBooked, ErrClassFull, then
// ErrInsufficientMinutes from the ledger.
func (s *BookingService) CreateBooking(ctx context.Context, userID, classID string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		class, err := tx.Classes().GetForUpdate(ctx, classID)
		if err != nil {
			return err
		}

		existing, err := tx.Bookings().GetByUserAndClass(ctx, userID, classID)
		if err != nil {
			return err
		}
		if existing != nil || class.HasAttendee(userID) {
			return domain.ErrAlreadyBooked
		}
		if !class.HasCapacity() {
			return domain.ErrClassFull
		}

		minutes, err := class.TotalMinutes()
		if err != nil {
			return err
		}

		b := &domain.Booking{
			ID:           uuid.NewString(),
			UserID:       userID,
			ClassID:      classID,
			MinutesSpent: minutes,
			CreatedAt:    s.now().UTC(),
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		if err := tx.Classes().AddAttendee(ctx, classID, userID); err != nil {
			return err
		}
		if _, err := s.ledger.Debit(ctx, tx, userID, minutes, domain.ReasonBooking, b.ID); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		metrics.Bookings.WithLabelValues(bookingResult(err)).Inc()
		return nil, err
	}

	metrics.Bookings.WithLabelValues("created").Inc()
	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", userID),
		zap.String("class_id", classID),
		zap.Int("minutes", booking.MinutesSpent),
	)
	s.publish(ctx, domain.EventBookingCreated, domain.BookingCreatedEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		ClassID:      booking.ClassID,
		MinutesSpent: booking.MinutesSpent,
		OccurredAt:   booking.CreatedAt,
	})
	return booking, nil
}

// ListBookings returns the user's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	return view(ctx, s.store, func(ctx context.Context, tx domain.Tx) ([]domain.Booking, error) {
		return tx.Bookings().ListByUser(ctx, userID, limit)
	})
}

func (s *BookingService) publish(ctx context.Context, key string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.log.Warn("publish event failed", zap.String("routing_key", key), zap.Error(err))
	}
}

func bookingResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrClassNotFound):
		return "class_not_found"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrClassFull):
		return "class_full"
	case errors.Is(err, domain.ErrInsufficientMinutes):
		return "insufficient_minutes"
	}
	return "error"
}
