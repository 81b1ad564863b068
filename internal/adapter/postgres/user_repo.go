package postgres

import (
	"context"
	"database/sql"
	"errors"

	"classbook/internal/domain"
)

type userRepo struct {
	q queryer
}

const userColumns = "id, email, name, password_hash, role, remaining_minutes, created_at"

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.RemainingMinutes, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID.
func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return nil, dbErr(err, domain.ErrUserNotFound)
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if err != nil {
		return nil, dbErr(err, domain.ErrUserNotFound)
	}
	return u, nil
}

// Create inserts a new user.
func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.RemainingMinutes, u.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// Count returns the total number of users.
func (r userRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, domain.Persistence(err)
	}
	return count, nil
}

// setupLockKey is the pg_advisory_xact_lock key guarding initial admin
// creation.
const setupLockKey = 7411

// LockSetup takes a transaction-scoped advisory lock so concurrent setup
// requests run one after another.
func (r userRepo) LockSetup(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", setupLockKey); err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// DebitMinutes subtracts minutes in one conditional UPDATE so the balance
// cannot go negative even without a prior row lock.
func (r userRepo) DebitMinutes(ctx context.Context, userID string, minutes int) (int, error) {
	var balance int
	err := r.q.QueryRowContext(ctx,
		"UPDATE users SET remaining_minutes = remaining_minutes - $2 WHERE id = $1 AND remaining_minutes >= $2 RETURNING remaining_minutes",
		userID, minutes,
	).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, domain.Persistence(err)
	}
	// no row: either the user is missing or the balance is too low
	u, getErr := r.GetByID(ctx, userID)
	if getErr != nil {
		return 0, getErr
	}
	if u.RemainingMinutes < minutes {
		return u.RemainingMinutes, domain.ErrInsufficientMinutes
	}
	return 0, domain.ErrInsufficientMinutes
}

// CreditMinutes adds minutes and returns the new balance.
func (r userRepo) CreditMinutes(ctx context.Context, userID string, minutes int) (int, error) {
	var balance int
	err := r.q.QueryRowContext(ctx,
		"UPDATE users SET remaining_minutes = remaining_minutes + $2 WHERE id = $1 RETURNING remaining_minutes",
		userID, minutes,
	).Scan(&balance)
	if err != nil {
		return 0, dbErr(err, domain.ErrUserNotFound)
	}
	return balance, nil
}
