package postgres

import (
	"context"
	"time"

	"classbook/internal/domain"
)

type packageRepo struct {
	q queryer
}

const packageColumns = "id, user_id, package_type, amount_cents, hours, status, stripe_payment_intent_id, created_at, updated_at"

func scanPackage(row interface{ Scan(...any) error }) (*domain.Package, error) {
	var p domain.Package
	err := row.Scan(&p.ID, &p.UserID, &p.PackageType, &p.AmountCents, &p.Hours, &p.Status,
		&p.StripePaymentIntentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a package.
func (r packageRepo) Create(ctx context.Context, p *domain.Package) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO packages ("+packageColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		p.ID, p.UserID, p.PackageType, p.AmountCents, p.Hours, p.Status,
		p.StripePaymentIntentID, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// GetByPaymentIntentID retrieves the package created for a payment intent.
func (r packageRepo) GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Package, error) {
	p, err := scanPackage(r.q.QueryRowContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE stripe_payment_intent_id = $1", intentID))
	if err != nil {
		return nil, dbErr(err, domain.ErrPackageNotFound)
	}
	return p, nil
}

// ListByUser returns the user's packages, newest first.
func (r packageRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Package, error) {
	return r.list(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, limitOrAll(limit))
}

// ListPendingBefore returns pending packages created before cutoff, oldest first.
func (r packageRepo) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Package, error) {
	return r.list(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE status = 'pending' AND created_at < $1 ORDER BY created_at LIMIT $2",
		cutoff.UTC(), limitOrAll(limit))
}

// TransitionStatus moves the package from one status to another only if it
// is still in from. It reports whether this call made the change.
func (r packageRepo) TransitionStatus(ctx context.Context, id string, from, to domain.PackageStatus) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		"UPDATE packages SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2",
		id, from, to, time.Now().UTC(),
	)
	if err != nil {
		return false, domain.Persistence(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.Persistence(err)
	}
	if n == 1 {
		return true, nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM packages WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, domain.Persistence(err)
	}
	if !exists {
		return false, domain.ErrPackageNotFound
	}
	return false, nil
}

func (r packageRepo) list(ctx context.Context, query string, args ...any) ([]domain.Package, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, domain.Persistence(err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(err)
	}
	return out, nil
}
