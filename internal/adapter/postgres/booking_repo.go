package postgres

import (
	"context"
	"database/sql"
	"errors"

	"classbook/internal/domain"
)

type bookingRepo struct {
	q queryer
}

// Create inserts a booking. The (user_id, class_id) unique constraint turns
// a concurrent duplicate into ErrAlreadyBooked.
func (r bookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO bookings (id, user_id, class_id, minutes_spent, created_at) VALUES ($1, $2, $3, $4, $5)",
		b.ID, b.UserID, b.ClassID, b.MinutesSpent, b.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyBooked
	}
	if err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// GetByUserAndClass returns the booking, or nil when the user has none for
// the class.
func (r bookingRepo) GetByUserAndClass(ctx context.Context, userID, classID string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.q.QueryRowContext(ctx,
		"SELECT id, user_id, class_id, minutes_spent, created_at FROM bookings WHERE user_id = $1 AND class_id = $2",
		userID, classID,
	).Scan(&b.ID, &b.UserID, &b.ClassID, &b.MinutesSpent, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return &b, nil
}

// ListByUser returns the user's bookings, newest first.
func (r bookingRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, user_id, class_id, minutes_spent, created_at FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limitOrAll(limit),
	)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ClassID, &b.MinutesSpent, &b.CreatedAt); err != nil {
			return nil, domain.Persistence(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(err)
	}
	return out, nil
}
